package main

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"kblog/internal/app"
	"kblog/internal/build"
	"kblog/internal/domain/config"
	"kblog/internal/domain/content"
	"kblog/internal/domain/site"
	"kblog/internal/ingest"
	"kblog/internal/locale"
	"kblog/internal/watch"
	"log"
	"time"
)

type options struct {
	configPath string
	publicDir  string
	unsafe     bool
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "kblog",
		Short:         "Bilingual (kor/eng) static blog generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "./site.yaml", "site config file")
	root.PersistentFlags().StringVar(&opts.publicDir, "out", "", "override build.public_dir")
	root.PersistentFlags().BoolVar(&opts.unsafe, "unsafe", false, "keep raw HTML in markdown unsanitized")

	root.AddCommand(newBuildCmd(opts), newRoutesCmd(opts), newWatchCmd(opts))
	return root
}

func (o *options) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return configError{err}
	}
	if o.publicDir != "" {
		cfg.Build.PublicDir = o.publicDir
	}
	if cmd.Flags().Changed("unsafe") {
		cfg.Build.UnsafeHTML = o.unsafe
	}
	if err := cfg.Validate(); err != nil {
		return configError{err}
	}
	o.cfg = cfg
	return nil
}

func newBuildCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Generate every page into the public directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &build.Builder{Cfg: opts.cfg}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %d routes from %d posts (%d warnings)\n",
				len(res.Routes), res.Posts, len(res.Warnings))
			return nil
		},
	}
}

func newRoutesCmd(opts *options) *cobra.Command {
	var (
		asJSON bool
		lang   string
	)
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table without writing pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			var only content.Language
			if lang != "" {
				l, err := locale.Parse(lang)
				if err != nil {
					return err
				}
				only = l
			}

			posts, warns, err := ingest.Ingest(opts.cfg.Build.SourceDir)
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}
			for _, w := range warns {
				log.Printf("[warn] %s", w)
			}
			p := app.Planner{Source: content.Collection(posts), PostLimit: opts.cfg.Build.PostLimit}
			plan, err := p.Plan(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range plan.Warnings {
				log.Printf("[warn] %s: %s", w.PublicPath, w.Msg)
			}

			routes := plan.Routes[:0:0]
			for _, r := range plan.Routes {
				if only == "" || r.Context.Language == only {
					routes = append(routes, r)
				}
			}
			return printRoutes(cmd.OutOrStdout(), routes, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVar(&lang, "lang", "", "only routes of this language (kor, eng, ko, en-US ...)")
	return cmd
}

func newWatchCmd(opts *options) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever the content directory changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &watch.Watcher{
				Dir:      opts.cfg.Build.SourceDir,
				Debounce: debounce,
				Timeout:  time.Minute,
				Rebuild: func(ctx context.Context) error {
					cfg := opts.cfg
					cfg.Build.Now = time.Now()
					_, err := (&build.Builder{Cfg: cfg}).Run(ctx)
					return err
				},
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")
	return cmd
}

func printRoutes(w io.Writer, routes []site.Route, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(routes)
	}
	for _, r := range routes {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
