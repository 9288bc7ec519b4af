// Package config holds the run configuration for the docket retrieval
// pipeline. Priority: CLI flags > environment variables > defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage layout modes.
const (
	LayoutSingleFolder = "single"    // everything in one directory, case number prefixed into filenames
	LayoutPerCase      = "subfolder" // processo_pdf / processo_txt / processo_xml trees keyed by case number
)

// Output format modes.
const (
	SaveModePDF     = "pdf"      // raw binaries only
	SaveModePDFText = "pdf_txt"  // raw binaries plus extracted text
	SaveModeText    = "txt"      // extracted text only
	SaveModeXMLOnly = "xml_only" // only the docket response itself
)

// ServiceSettings configure the remote docket service endpoint.
type ServiceSettings struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// LogSettings configure the run log.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the immutable configuration for one run. It is owned by the
// orchestrator and never mutated by case workers.
type Config struct {
	OutputDir       string        `mapstructure:"output_dir"`
	Layout          string        `mapstructure:"layout"`
	SaveMode        string        `mapstructure:"save_mode"`
	Categories      []string      `mapstructure:"categories"`
	FilterByYear    bool          `mapstructure:"filter_by_year"`
	Years           []string      `mapstructure:"years"`
	MultiInstance   bool          `mapstructure:"multi_instance"`
	MergePDFs       bool          `mapstructure:"merge_pdfs"`
	SaveDocket      bool          `mapstructure:"save_docket"`
	MaxCases        int           `mapstructure:"max_cases"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	Pause           time.Duration `mapstructure:"pause"`
	Workers         int           `mapstructure:"workers"`
	ArchiveBucket   string        `mapstructure:"archive_bucket"`
	Cases           []string      `mapstructure:"cases"`

	Service ServiceSettings `mapstructure:"service"`
	Log     LogSettings     `mapstructure:"log"`
}

// RegisterFlags registers all CLI flags on the given FlagSet.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("output-dir", "o", "", "Directory artifacts are written to")
	flags.String("layout", "", "Storage layout: single or subfolder")
	flags.String("save-mode", "", "Output format: pdf, pdf_txt, txt or xml_only")
	flags.StringSliceP("categories", "c", nil, "Document category codes to download (comma-separated)")
	flags.Bool("filter-by-year", false, "Enable the year filter")
	flags.StringSlice("years", nil, "4-digit years to keep when the year filter is enabled")
	flags.Bool("multi-instance", false, "Let the service resolve the case across judicial tiers")
	flags.Bool("merge", false, "Build one merged PDF per case")
	flags.Bool("save-docket", false, "Persist the raw docket response per case")
	flags.Int("max-cases", 0, "Cap on how many cases are processed")
	flags.Duration("query-timeout", 0, "Per-request timeout for docket queries")
	flags.Duration("download-timeout", 0, "Per-request timeout for content downloads")
	flags.Duration("pause", 0, "Pause between cases")
	flags.Int("workers", 0, "Concurrent case workers (1 = sequential with pacing)")
	flags.String("archive-bucket", "", "Optional GCS bucket to archive finished case artifacts to")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: console or json")
}

// Load resolves the configuration from defaults, DOCKETFLOW_* environment
// variables and, when flags is non-nil, CLI flag overrides.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("layout", LayoutSingleFolder)
	v.SetDefault("save_mode", SaveModePDFText)
	v.SetDefault("max_cases", 200)
	v.SetDefault("query_timeout", 60*time.Second)
	v.SetDefault("download_timeout", 120*time.Second)
	v.SetDefault("pause", 2*time.Second)
	v.SetDefault("workers", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("service.url", "https://esaj.tjms.jus.br/mniws/servico-intercomunicacao-2.2.2/intercomunicacao?wsdl")

	v.SetEnvPrefix("DOCKETFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("service.url", "DOCKETFLOW_SERVICE_URL")
	_ = v.BindEnv("service.user", "DOCKETFLOW_SERVICE_USER")
	_ = v.BindEnv("service.password", "DOCKETFLOW_SERVICE_PASSWORD")

	if flags != nil {
		_ = v.BindPFlag("output_dir", flags.Lookup("output-dir"))
		_ = v.BindPFlag("layout", flags.Lookup("layout"))
		_ = v.BindPFlag("save_mode", flags.Lookup("save-mode"))
		_ = v.BindPFlag("categories", flags.Lookup("categories"))
		_ = v.BindPFlag("filter_by_year", flags.Lookup("filter-by-year"))
		_ = v.BindPFlag("years", flags.Lookup("years"))
		_ = v.BindPFlag("multi_instance", flags.Lookup("multi-instance"))
		_ = v.BindPFlag("merge_pdfs", flags.Lookup("merge"))
		_ = v.BindPFlag("save_docket", flags.Lookup("save-docket"))
		_ = v.BindPFlag("max_cases", flags.Lookup("max-cases"))
		_ = v.BindPFlag("query_timeout", flags.Lookup("query-timeout"))
		_ = v.BindPFlag("download_timeout", flags.Lookup("download-timeout"))
		_ = v.BindPFlag("pause", flags.Lookup("pause"))
		_ = v.BindPFlag("workers", flags.Lookup("workers"))
		_ = v.BindPFlag("archive_bucket", flags.Lookup("archive-bucket"))
		_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
		_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

// Validate is the only check that aborts a run before it starts. Everything
// past this point degrades per case instead of failing the run.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	switch c.Layout {
	case LayoutSingleFolder, LayoutPerCase:
	default:
		return fmt.Errorf("unknown layout %q", c.Layout)
	}
	switch c.SaveMode {
	case SaveModePDF, SaveModePDFText, SaveModeText, SaveModeXMLOnly:
	default:
		return fmt.Errorf("unknown save mode %q", c.SaveMode)
	}
	if c.SaveMode != SaveModeXMLOnly && len(c.Categories) == 0 {
		return errors.New("no document categories selected")
	}
	if c.FilterByYear {
		if len(c.CleanYears()) == 0 {
			return errors.New("year filter enabled but no usable years given")
		}
	}
	if len(c.Cases) == 0 {
		return errors.New("no case numbers supplied")
	}
	if c.MaxCases <= 0 {
		return errors.New("max cases must be positive")
	}
	if c.Service.URL == "" {
		return errors.New("service URL must be set")
	}
	return nil
}

// CleanYears returns the configured filter years trimmed, keeping only
// 4-digit entries.
func (c *Config) CleanYears() []string {
	var out []string
	for _, y := range c.Years {
		y = strings.TrimSpace(y)
		if len(y) == 4 && isDigits(y) {
			out = append(out, y)
		}
	}
	return out
}

// CategorySet returns the selected category codes as a set.
func (c *Config) CategorySet() map[string]bool {
	set := make(map[string]bool, len(c.Categories))
	for _, code := range c.Categories {
		code = strings.TrimSpace(code)
		if code != "" {
			set[code] = true
		}
	}
	return set
}

// NormalizeCaseNumber strips everything but digits from a free-form case
// number and truncates to the 20 digits the service accepts.
func NormalizeCaseNumber(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 20 {
		return s[:20]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
