package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Terence890/Nebula-Stream/frontend/browse"
	"github.com/Terence890/Nebula-Stream/frontend/details"
	"github.com/Terence890/Nebula-Stream/frontend/hero"
	"github.com/Terence890/Nebula-Stream/frontend/listing"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/frontend/profiles"
	"github.com/Terence890/Nebula-Stream/frontend/session"
	"github.com/Terence890/Nebula-Stream/frontend/trailer"
	"github.com/Terence890/Nebula-Stream/handlers"
	"github.com/Terence890/Nebula-Stream/internal/player"
	"github.com/Terence890/Nebula-Stream/internal/tui"
	"github.com/Terence890/Nebula-Stream/models"
)

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBrowse(cmd.Context())
		},
	}
}

func (a *app) runBrowse(ctx context.Context) error {
	toasts := notify.NewCenter(notify.DefaultTTL)
	holder := profiles.NewHolder(a.api, a.store, toasts)

	overlay := trailer.NewOverlay(player.NewFactory(player.Config{Binary: a.cfg.Player}), toasts)
	defer overlay.Dispose()

	view := browse.New(a.api, holder, toasts, hero.New(hero.DefaultInterval, nil))
	defer view.Dispose()

	return tui.Run(ctx, tui.Deps{
		Titles:   a.api,
		Session:  session.New(a.api, a.store, toasts),
		Profiles: holder,
		Browse:   view,
		Listing:  listing.New(a.api, toasts),
		Details:  details.NewDialog(a.api, toasts),
		Trailer:  overlay,
		Toasts:   toasts,
		OpenURL:  player.OpenURL,
	})
}

func (a *app) credentialsCmd(use, short string, run func(ctx context.Context, email, password string) error) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("NEBULA_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if err := run(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", strings.TrimSpace(email))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (or NEBULA_PASSWORD, or prompt)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	return a.credentialsCmd("register", "Create an account and sign in", func(ctx context.Context, email, password string) error {
		return a.session().Register(ctx, email, password)
	})
}

func (a *app) loginCmd() *cobra.Command {
	return a.credentialsCmd("login", "Sign in and remember the session", func(ctx context.Context, email, password string) error {
		return a.session().Login(ctx, email, password)
	})
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget the selected profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.session()
			// Restore loads the user so Logout also revokes the server session.
			_ = s.Restore(cmd.Context())
			s.Logout(cmd.Context())
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.session()
			if err := s.Restore(cmd.Context()); err != nil {
				return err
			}
			user, ok := s.User()
			if !ok {
				return errors.New("not signed in")
			}
			fmt.Fprintf(a.out, "%s (%s plan)\n", user.Email, user.SubscriptionPlan)
			return nil
		},
	}
}

func (a *app) profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List viewing profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			holder := a.profileHolder()
			if err := holder.Fetch(cmd.Context()); err != nil {
				return err
			}
			selected, _ := holder.Selected()
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tNAME\tKIDS\tID")
			for _, p := range holder.Profiles() {
				mark := ""
				if p.ID == selected.ID {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", mark, p.Name, p.IsKids, p.ID)
			}
			return w.Flush()
		},
	}

	var kids bool
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a profile and select it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.profileHolder().Create(cmd.Context(), strings.Join(args, " "), kids)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Selected %s\n", p.Name)
			return nil
		},
	}
	create.Flags().BoolVar(&kids, "kids", false, "mark as a kids profile")

	sel := &cobra.Command{
		Use:   "select NAME|ID",
		Short: "Choose the active profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := strings.Join(args, " ")
			holder := a.profileHolder()
			if err := holder.Fetch(cmd.Context()); err != nil {
				return err
			}
			for _, p := range holder.Profiles() {
				if p.ID == want || strings.EqualFold(p.Name, want) {
					holder.Select(p)
					fmt.Fprintf(a.out, "Selected %s\n", p.Name)
					return nil
				}
			}
			return fmt.Errorf("no profile named %q", want)
		},
	}

	cmd.AddCommand(create, sel)
	return cmd
}

func (a *app) titlesCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "titles",
		Short: "Query the catalog",
	}
	cmd.PersistentFlags().IntVar(&page, "page", 1, "result page")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trending",
			Short: "Trending movies and TV shows",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.api.Trending(cmd.Context(), page)
				if err != nil {
					return err
				}
				return a.printTitles(res)
			},
		},
		&cobra.Command{
			Use:   "popular movie|tv",
			Short: "Popular movies or TV shows",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				mediaType, err := parseMediaType(args[0])
				if err != nil {
					return err
				}
				res, err := a.api.Popular(cmd.Context(), mediaType, page)
				if err != nil {
					return err
				}
				return a.printTitles(res)
			},
		},
		&cobra.Command{
			Use:   "search QUERY",
			Short: "Search movies and TV shows",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.api.Search(cmd.Context(), strings.Join(args, " "), page)
				if err != nil {
					return err
				}
				return a.printTitles(res)
			},
		},
		&cobra.Command{
			Use:   "show movie|tv ID",
			Short: "Show one title with its trailer",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				mediaType, id, err := parseTitleRef(args)
				if err != nil {
					return err
				}
				t, err := a.api.Details(cmd.Context(), mediaType, id)
				if err != nil {
					return err
				}
				a.printDetails(*t)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) watchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show the selected profile's watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.selectedProfile(cmd.Context())
			if err != nil {
				return err
			}
			items, err := a.api.Watchlist(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TMDB ID\tTYPE\tADDED")
			for _, it := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\n", it.TMDBID, it.MediaType, it.AddedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add movie|tv ID",
			Short: "Add a title",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				mediaType, id, err := parseTitleRef(args)
				if err != nil {
					return err
				}
				view := browse.New(a.api, profileSource{a: a, ctx: cmd.Context()}, a.notify, nil)
				return view.AddToWatchlist(cmd.Context(), models.Title{ID: id, MediaType: mediaType})
			},
		},
		&cobra.Command{
			Use:   "remove ID",
			Short: "Remove a title",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid title id %q", args[0])
				}
				p, err := a.selectedProfile(cmd.Context())
				if err != nil {
					return err
				}
				msg, err := a.api.RemoveFromWatchlist(cmd.Context(), p.ID, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, msg.Message)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the selected profile's watch history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.selectedProfile(cmd.Context())
			if err != nil {
				return err
			}
			items, err := a.api.History(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TMDB ID\tTYPE\tPROGRESS\tLAST WATCHED")
			for _, it := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", it.TMDBID, it.MediaType, progress(it.Position, it.Duration), it.LastWatched.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	var position, duration int
	record := &cobra.Command{
		Use:   "record movie|tv ID",
		Short: "Record how far a title was watched",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, id, err := parseTitleRef(args)
			if err != nil {
				return err
			}
			p, err := a.selectedProfile(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := a.api.RecordProgress(cmd.Context(), p.ID, models.WatchHistoryUpdate{
				TMDBID:    id,
				MediaType: mediaType,
				Position:  position,
				Duration:  duration,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, msg.Message)
			return nil
		},
	}
	record.Flags().IntVar(&position, "position", 0, "position in seconds")
	record.Flags().IntVar(&duration, "duration", 0, "runtime in seconds")
	cmd.AddCommand(record)
	return cmd
}

func (a *app) trailerCmd() *cobra.Command {
	var open bool
	cmd := &cobra.Command{
		Use:   "trailer movie|tv ID",
		Short: "Play a title's trailer in the external player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, id, err := parseTitleRef(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var mounted *player.MPV
			cfg := player.Config{Binary: a.cfg.Player}
			overlay := trailer.NewOverlay(func(onError func(int)) trailer.Player {
				mounted = player.New(cfg, onError)
				return mounted
			}, a.notify)
			defer overlay.Dispose()

			if !overlay.Play(ctx, a.api, models.Title{ID: id, MediaType: mediaType}) {
				return errors.New("nothing to play")
			}

			state := overlay.State()
			fmt.Fprintf(a.out, "%s\n%s\n", state.Title, state.ExternalURL)
			if state.YouTube && !state.EmbedFailed && mounted != nil {
				fmt.Fprintln(a.out, "Playing in the external player (Ctrl+C to stop)")
				select {
				case <-ctx.Done():
				case <-mounted.Done():
				}
				return nil
			}
			if open {
				return player.OpenURL(state.ExternalURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&open, "open", false, "open external trailers in the browser")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "client: %s\n", handlers.BackendVersion())
			v, err := a.api.ServerVersion(cmd.Context())
			if err != nil {
				return fmt.Errorf("server: %w", err)
			}
			fmt.Fprintf(a.out, "server: %s\n", v)
			return nil
		},
	}
}

func (a *app) printTitles(res *models.PagedTitles) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tYEAR\tRATING")
	for _, t := range res.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.ResolvedMediaType(), t.DisplayName(), t.Year(), t.RatingLabel())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if res.TotalPages > 0 {
		fmt.Fprintf(a.out, "page %d of %d\n", res.Page, res.TotalPages)
	}
	return nil
}

func (a *app) printDetails(t models.Title) {
	fmt.Fprintf(a.out, "%s (%s)  ★ %s\n", t.DisplayName(), t.Year(), t.RatingLabel())
	if len(t.Genres) > 0 {
		names := make([]string, 0, len(t.Genres))
		for _, g := range t.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintln(a.out, strings.Join(names, ", "))
	}
	if t.Overview != "" {
		fmt.Fprintf(a.out, "\n%s\n", t.Overview)
	}
	if v, ok := trailer.Resolve(t.VideoResults()); ok {
		link := v.URL
		if link == "" && v.Key != "" {
			link = trailer.WatchURL(v.Key)
		}
		fmt.Fprintf(a.out, "\n%s: %s\n", v.Type, link)
	}
}

// profileSource resolves the selected profile lazily for one-shot commands.
type profileSource struct {
	a   *app
	ctx context.Context
}

func (p profileSource) Selected() (models.Profile, bool) {
	profile, err := p.a.selectedProfile(p.ctx)
	return profile, err == nil
}

func parseMediaType(value string) (string, error) {
	mediaType, ok := models.NormalizeMediaType(value)
	if !ok {
		return "", fmt.Errorf("media type must be movie or tv, got %q", value)
	}
	return mediaType, nil
}

func parseTitleRef(args []string) (string, int64, error) {
	mediaType, err := parseMediaType(args[0])
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid title id %q", args[1])
	}
	return mediaType, id, nil
}

func progress(position, duration int) string {
	if duration <= 0 {
		return fmt.Sprintf("%ds", position)
	}
	return fmt.Sprintf("%d%%", position*100/duration)
}
