package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"bimqr/internal/catalog"
	"bimqr/internal/config"
	"bimqr/internal/logging"
	"bimqr/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	must(err)

	fs := flag.NewFlagSet("bimqr", flag.ExitOnError)
	fs.Usage = func() { usage(fs) }
	var project, discipline string
	fs.StringVar(&project, "project", "", "project display name (required)")
	fs.StringVar(&project, "p", "", "shorthand for -project")
	fs.StringVar(&discipline, "discipline", "", "discipline filter (tables) or override (IFC)")
	fs.StringVar(&discipline, "d", "", "shorthand for -discipline")
	baseURL := fs.String("base-url", "", "public site URL (default $BASE_URL or "+config.DefaultBaseURL+")")
	noPDF := fs.Bool("no-pdf", false, "skip the QR label PDF")
	noSite := fs.Bool("no-site", false, "skip the static site")
	listDisciplines := fs.Bool("list-disciplines", false, "list known disciplines and exit")
	inventory := fs.String("inventory", "", "also write an xlsx inventory to this path")

	inputs := parseInterleaved(fs, os.Args[1:])

	if *listDisciplines {
		printDisciplines()
		return
	}
	if len(inputs) != 1 {
		usage(fs)
		os.Exit(1)
	}
	if strings.TrimSpace(project) == "" {
		must(fmt.Errorf("project name is required (-p / -project)"))
	}
	if *baseURL != "" {
		cfg.BaseURL, err = config.ValidateBaseURL(*baseURL)
		must(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	must(err)
	defer func() { _ = logger.Sync() }()

	svc := pipeline.NewGenerationService(cfg, logger)
	res, err := svc.Run(pipeline.RunOptions{
		InputPath:     inputs[0],
		Project:       project,
		Discipline:    discipline,
		SkipSite:      *noSite,
		SkipPDF:       *noPDF,
		InventoryPath: *inventory,
	})
	must(err)

	fmt.Println()
	fmt.Println("summary by discipline:")
	for _, c := range res.Counts {
		fmt.Printf("  %s: %d\n", c.Discipline, c.Count)
	}
	fmt.Printf("  TOTAL: %d\n", len(res.Elements))

	line := strings.Repeat("=", 50)
	fmt.Printf("\n%s\n  done in %s (run %s)\n%s\n", line, res.Elapsed.Round(time.Millisecond), res.RunID, line)
	if res.Site != nil {
		fmt.Printf("  site:      %s/ (%d pages)\n", res.Site.Dir, res.Site.Pages)
	}
	if res.PDFPath != "" {
		fmt.Printf("  pdf:       %s\n", res.PDFPath)
	}
	if res.InventoryPath != "" {
		fmt.Printf("  inventory: %s\n", res.InventoryPath)
	}
	fmt.Printf("  hosting:   %s\n", res.HostingConfig)
	fmt.Println()
	fmt.Println("  deploy to Firebase Hosting:")
	fmt.Println("    firebase init hosting  (first time)")
	fmt.Println("    firebase deploy --only hosting")
}

// parseInterleaved lets flags follow the positional input path.
func parseInterleaved(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		_ = fs.Parse(args)
		rest := fs.Args()
		if len(rest) == 0 {
			return positional
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func printDisciplines() {
	disciplines := catalog.Disciplines()
	sort.Slice(disciplines, func(i, j int) bool { return disciplines[i].Name < disciplines[j].Name })

	fmt.Println("available disciplines:")
	for _, d := range disciplines {
		fmt.Printf("  %s\n", d.Name)
		for _, class := range d.Classes {
			fmt.Printf("    %s -> %s\n", class, catalog.CategoryFor(class))
		}
	}
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "usage: bimqr [flags] <input.csv|.xlsx|.xls|.ifc>")
	fmt.Fprintln(out, "examples:")
	fmt.Fprintln(out, `  bimqr -p "CAPPI Edificio" data/elementos.csv`)
	fmt.Fprintln(out, "  bimqr -p CAPPI -d Arquitectura data/modelo.ifc")
	fmt.Fprintln(out, "  bimqr -list-disciplines")
	fmt.Fprintln(out, "flags:")
	fs.PrintDefaults()
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
