// Command manifest-kit works with manifest builder project files from the
// command line: validate a whole project, render it to a multi-document
// manifest, lint an existing manifest file, or preview a cron schedule.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"manifest-kit/pkg/logger"
	"manifest-kit/pkg/manifest"
	"manifest-kit/pkg/project"
	"manifest-kit/pkg/validate"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version of the application
	Version = "dev"
	// GitCommit is the git commit SHA at build time
	GitCommit = "unknown"
	// BuildTime is the time of the build
	BuildTime = "unknown"
)

// FlagConfig holds all command line flags
type FlagConfig struct {
	projectFile *string
	check       *bool
	render      *bool
	out         *string
	lintFile    *string
	schedule    *string
	next        *int
	logLevel    *string
	version     *bool
}

// parseFlags parses command line flags and returns configuration
func parseFlags() *FlagConfig {
	flags := &FlagConfig{
		projectFile: flag.String("project", "", "Path to a project file"),
		check:       flag.Bool("check", false, "Validate every resource in the project"),
		render:      flag.Bool("render", false, "Render the project to a manifest"),
		out:         flag.String("out", "", "Write one manifest file per resource into this directory instead of stdout"),
		lintFile:    flag.String("lint", "", "Validate the resources in a manifest file or directory"),
		schedule:    flag.String("schedule", "", "Preview a cron schedule (use with -next)"),
		next:        flag.Int("next", 3, "Number of upcoming runs to show for -schedule"),
		logLevel:    flag.String("log-level", "", "Log level (debug, info, warn, error)"),
		version:     flag.Bool("version", false, "Show version information"),
	}
	flag.Parse()
	return flags
}

// handleSpecialFlags handles the version flag that exits early
func handleSpecialFlags(flags *FlagConfig) {
	if *flags.version {
		fmt.Printf("manifest-kit %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
		os.Exit(0)
	}
}

func main() {
	// Environment overrides may live in a local .env file
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to load .env file: %v", err)
	}

	flags := parseFlags()
	handleSpecialFlags(flags)

	if *flags.logLevel != "" {
		logger.SetLevel(*flags.logLevel)
	}

	switch {
	case *flags.schedule != "":
		os.Exit(runSchedule(*flags.schedule, *flags.next))
	case *flags.lintFile != "":
		os.Exit(runLint(*flags.lintFile))
	case *flags.projectFile != "" && *flags.check:
		os.Exit(runCheck(*flags.projectFile))
	case *flags.projectFile != "" && *flags.render:
		os.Exit(runRender(*flags.projectFile, *flags.out))
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runCheck validates every resource of a project file and prints the
// aggregate report. Exit code 0 means the project is consistent.
func runCheck(path string) int {
	p, err := project.Load(path)
	if err != nil {
		logger.Errorf("Failed to load project: %v", err)
		return 1
	}

	report := p.Check()
	fmt.Printf("project %s: %d resources", p.Name, report.ResourceCount)
	for _, kind := range sortedKeys(report.Kinds) {
		fmt.Printf(", %d %s", report.Kinds[kind], kind)
	}
	fmt.Println()

	if report.Valid {
		fmt.Println("all resources are valid")
		return 0
	}
	for _, id := range sortedErrorKeys(report.Errors) {
		errs := report.Errors[id]
		for _, field := range sortedErrorFields(errs) {
			fmt.Printf("%s: %s: %s\n", id, field, errs[field])
		}
	}
	return 1
}

// runRender renders the project: one multi-document stream on stdout, or
// one manifest file per resource under the -out directory.
func runRender(path, out string) int {
	p, err := project.Load(path)
	if err != nil {
		logger.Errorf("Failed to load project: %v", err)
		return 1
	}
	if out == "" {
		text, err := p.RenderAll()
		if err != nil {
			logger.Errorf("Failed to render project: %v", err)
			return 1
		}
		fmt.Print(text)
		return 0
	}

	files, err := p.RenderFiles()
	if err != nil {
		logger.Errorf("Failed to render project: %v", err)
		return 1
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		logger.Errorf("Failed to create manifest directory: %v", err)
		return 1
	}
	for _, f := range files {
		target := filepath.Join(out, f.Name)
		if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			logger.Errorf("Failed to write %s: %v", target, err)
			return 1
		}
	}
	logger.Infof("Wrote %d manifest files to %s", len(files), out)
	return 0
}

// runLint decodes manifests and validates each resource on its own. A
// directory is walked for .yaml/.yml files. Cross-references are not
// resolved: a manifest file carries no project context, so dangling
// references pass here and fail only in -check.
func runLint(path string) int {
	paths, err := manifestPaths(path)
	if err != nil {
		logger.Errorf("Failed to find manifests: %v", err)
		return 1
	}
	if len(paths) == 0 {
		logger.Warnf("No manifest files under %s", path)
		return 0
	}

	total, failed := 0, 0
	for _, file := range paths {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Errorf("Failed to read %s: %v", file, err)
			failed++
			continue
		}
		resources, err := manifest.DecodeAll(string(data))
		if err != nil {
			logger.Errorf("Failed to decode %s: %v", file, err)
			failed++
			continue
		}
		total += len(resources)
		for i, res := range resources {
			errs, err := validate.Resource(res, validate.Context{})
			if err != nil {
				logger.Errorf("%s: resource %d: %v", file, i+1, err)
				failed++
				continue
			}
			if errs.OK() {
				continue
			}
			failed++
			for _, field := range sortedErrorFields(errs) {
				fmt.Printf("%s: resource %d: %s: %s\n", file, i+1, field, errs[field])
			}
		}
	}
	if failed > 0 {
		fmt.Printf("%d findings across %d resources\n", failed, total)
		return 1
	}
	fmt.Printf("all %d resources are valid\n", total)
	return 0
}

// manifestPaths expands path into the manifest files to lint: the path
// itself when it is a file, every .yaml/.yml under it when a directory.
func manifestPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var paths []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".yaml") || strings.HasSuffix(d.Name(), ".yml") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// runSchedule prints the next n run times of a cron schedule.
func runSchedule(schedule string, n int) int {
	if n < 1 {
		n = 1
	}
	runs, ok := validate.NextRuns(schedule, time.Now(), n)
	if !ok {
		fmt.Printf("%q is not a valid schedule\n", schedule)
		return 1
	}
	for _, run := range runs {
		fmt.Println(run.Format(time.RFC3339))
	}
	return 0
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedErrorKeys(m map[string]validate.Errors) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedErrorFields(errs validate.Errors) []string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
