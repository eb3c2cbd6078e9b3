package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"apollo-gatherer/internal/apollo"
	"apollo-gatherer/internal/config"
	"apollo-gatherer/internal/export"
	"apollo-gatherer/internal/gather"
	"apollo-gatherer/internal/secrets"
	"apollo-gatherer/internal/seen"
)

type cliOptions struct {
	JobTitles     []string `long:"job-title" description:"Job title keyword. Repeat the flag for more than one keyword."`
	JobTitlesCSV  string   `long:"job-titles" description:"Comma-separated list of job title keywords."`
	Companies     []string `long:"company" description:"Company name. Repeat the flag for more than one company."`
	CompaniesFile string   `long:"companies-file" description:"Text file with one company name per line."`
	ListName      string   `long:"list-name" description:"Apollo list to export contacts from (overrides job/company filters)."`
	FromListAPI   bool     `long:"from-list-api" description:"Resolve --list-name through the list-contacts endpoint instead of people search."`
	Country       string   `long:"country" description:"Country filter, for example \"United States\". Required for job/company searches."`

	Output       string   `long:"output" description:"Destination CSV file (default apollo_contacts.csv)."`
	PerPage      *int     `long:"per-page" description:"Contacts per page; Apollo allows up to 200 (default 25)."`
	MaxPages     *int     `long:"max-pages" description:"Maximum number of result pages to request."`
	MaxContacts  *int     `long:"max-contacts" description:"Stop once this many contacts have been gathered."`
	RequestDelay *float64 `long:"request-delay" description:"Seconds to wait between page requests (default 0.5)."`
	MaxRetries   *int     `long:"max-retries" description:"Retries on rate-limit responses before giving up (default 5)."`
	Backoff      *float64 `long:"backoff-factor" description:"Exponential backoff multiplier for rate-limit retries (default 1.5)."`

	APIKey   string `long:"api-key" env:"APOLLO_API_KEY" description:"Apollo API key. Falls back to the OS keychain."`
	SeenFile string `long:"seen-emails-file" description:"File of already-exported emails to skip (default .apollo_seen_emails.txt)."`
	Config   string `long:"config" description:"Optional YAML defaults file (default apollo-gatherer.yml if present)."`
	BaseURL  string `long:"base-url" description:"Override the Apollo API base URL."`

	SetKey    bool `long:"set-key" description:"Store --api-key in the OS keychain and exit."`
	DeleteKey bool `long:"delete-key" description:"Remove the stored key from the OS keychain and exit."`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS]"
	if _, err := parser.ParseArgs(argv); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.SetKey {
		if err := secrets.StoreAPIKey(opts.APIKey); err != nil {
			fmt.Fprintf(os.Stderr, "store api key: %v\n", err)
			return 2
		}
		log.Printf("[secrets] api key stored in OS keychain (service %q)", secrets.KeyringService)
		return 0
	}
	if opts.DeleteKey {
		if err := secrets.DeleteAPIKey(); err != nil {
			fmt.Fprintf(os.Stderr, "delete api key: %v\n", err)
			return 2
		}
		log.Printf("[secrets] api key removed from OS keychain")
		return 0
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}
	if err := applyFlags(&cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return 2
	}

	apiKey, err := secrets.ResolveAPIKey(opts.APIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	release, lockErr := seen.Lock(cfg.Output.SeenFile)
	if lockErr != nil {
		log.Printf("[seen] could not lock %s: %v (continuing without lock)", cfg.Output.SeenFile, lockErr)
	}
	defer release()

	seenSet := seen.Load(cfg.Output.SeenFile)
	log.Printf("[seen] loaded %d previously exported emails from %s", len(seenSet), cfg.Output.SeenFile)

	client := apollo.New(apollo.Config{
		APIKey:        apiKey,
		BaseURL:       cfg.API.BaseURL,
		MaxRetries:    cfg.API.MaxRetries,
		BackoffFactor: cfg.API.BackoffFactor,
	})

	gatherOpts := gather.Options{
		Query: apollo.Query{
			JobTitles: cfg.Search.JobTitles,
			Companies: cfg.Search.Companies,
			Country:   cfg.Search.Country,
		},
		Pages: apollo.PageOptions{
			PerPage:  cfg.API.PerPage,
			MaxPages: cfg.API.MaxPages,
			Delay:    time.Duration(cfg.API.RequestDelay * float64(time.Second)),
		},
		MaxContacts: cfg.API.MaxContacts,
		Seen:        seenSet,
	}

	var result gather.Result
	switch {
	case cfg.Search.ListName != "" && opts.FromListAPI:
		listID, lerr := resolveListID(ctx, client, cfg.Search.ListName)
		if lerr != nil {
			log.Printf("[gather] %v", lerr)
			return 1
		}
		result, err = gather.RunList(ctx, client, listID, gatherOpts)
	case cfg.Search.ListName != "":
		// List mode through people search: membership scopes the query,
		// company filters stay empty.
		gatherOpts.Query.Companies = nil
		gatherOpts.Query.ListNames = []string{cfg.Search.ListName}
		result, err = gather.Run(ctx, client, gatherOpts)
	default:
		result, err = gather.Run(ctx, client, gatherOpts)
	}
	if err != nil {
		log.Printf("[gather] apollo request failed: %v", err)
		return 1
	}

	if err := export.WriteCSV(cfg.Output.Path, result.Contacts); err != nil {
		log.Printf("[export] %v", err)
		return 1
	}
	log.Printf("[export] wrote %d contacts to %s", len(result.Contacts), cfg.Output.Path)

	if len(result.NewlySeen) > 0 {
		if err := seen.Save(cfg.Output.SeenFile, seenSet); err != nil {
			log.Printf("[seen] save failed: %v", err)
			return 1
		}
		log.Printf("[seen] recorded %d new emails in %s", len(result.NewlySeen), cfg.Output.SeenFile)
	}

	return 0
}

// applyFlags overlays CLI values on the loaded defaults. List flags append,
// scalar flags replace, pointer flags replace only when given.
func applyFlags(cfg *config.Config, opts cliOptions) error {
	cfg.Search.JobTitles = append(cfg.Search.JobTitles, opts.JobTitles...)
	if opts.JobTitlesCSV != "" {
		cfg.Search.JobTitles = append(cfg.Search.JobTitles, config.SplitCSVList(opts.JobTitlesCSV)...)
	}
	cfg.Search.Companies = append(cfg.Search.Companies, opts.Companies...)
	if opts.CompaniesFile != "" {
		if err := config.OverlayCompaniesFile(cfg, opts.CompaniesFile); err != nil {
			return err
		}
	}
	if opts.ListName != "" {
		cfg.Search.ListName = opts.ListName
	}
	if opts.Country != "" {
		cfg.Search.Country = opts.Country
	}
	if opts.Output != "" {
		cfg.Output.Path = opts.Output
	}
	if opts.SeenFile != "" {
		cfg.Output.SeenFile = opts.SeenFile
	}
	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}
	if opts.PerPage != nil {
		cfg.API.PerPage = *opts.PerPage
	}
	if opts.MaxPages != nil {
		cfg.API.MaxPages = *opts.MaxPages
	}
	if opts.MaxContacts != nil {
		cfg.API.MaxContacts = *opts.MaxContacts
	}
	if opts.RequestDelay != nil {
		cfg.API.RequestDelay = *opts.RequestDelay
	}
	if opts.MaxRetries != nil {
		cfg.API.MaxRetries = *opts.MaxRetries
	}
	if opts.Backoff != nil {
		cfg.API.BackoffFactor = *opts.Backoff
	}
	return nil
}

func resolveListID(ctx context.Context, client *apollo.Client, name string) (string, error) {
	rec, err := client.ListByName(ctx, name)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("no apollo list named %q", name)
	}
	id := rec.String("id")
	if id == "" {
		id = rec.String("_id")
	}
	if id == "" {
		return "", fmt.Errorf("apollo list %q has no id field", name)
	}
	return id, nil
}
