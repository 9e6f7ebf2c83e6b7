package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bkyoung/mtscreen/internal/domain"
	"github.com/bkyoung/mtscreen/internal/store"
	"github.com/bkyoung/mtscreen/internal/usecase/classify"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// Classifier defines the dependency required to run the classify command.
type Classifier interface {
	Classify(ctx context.Context, input domain.ClassificationInput) (classify.Result, error)
}

// HistoryReader defines the dependency required to run the history command.
type HistoryReader interface {
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	GetRunsByFingerprint(ctx context.Context, fingerprint string) ([]store.Run, error)
}

// ReportWriter persists one report artifact and returns its path.
type ReportWriter interface {
	Write(ctx context.Context, artifact domain.ReportArtifact) (string, error)
}

// Arguments encapsulates IO streams injected from the host process.
type Arguments struct {
	InReader  io.Reader
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Classifier    Classifier
	History       HistoryReader // Optional: nil when the store is disabled
	JSON          ReportWriter
	Markdown      ReportWriter
	Args          Arguments
	DefaultOutput string
	DefaultFormat string
	Version       string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "mts",
		Short: "Modification traveler screening CLI",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	inReader := deps.Args.InReader
	if inReader == nil {
		inReader = os.Stdin
	}
	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetIn(inReader)
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(classifyCommand(deps.Classifier, deps.JSON, deps.Markdown, deps.DefaultOutput, deps.DefaultFormat))
	root.AddCommand(historyCommand(deps.History))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func classifyCommand(classifier Classifier, jsonWriter, markdownWriter ReportWriter, defaultOutput, defaultFormat string) *cobra.Command {
	var inputPath string
	var outputDir string
	var format string

	var problem string
	var solution string
	var justification string
	var safetyClassification string
	var hazardCategory string

	// Structured screening attributes
	var temporary bool
	var physicalChange bool
	var identicalReplacement bool
	var designOutsideAuthority bool
	var newProcedures bool
	var multipleDocuments bool
	var singleDiscipline bool
	var revisionsOutsideAuthority bool
	var softwareChange bool
	var hoistingRigging bool
	var fcpApplicable bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Screen a proposed facility change for MT applicability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			input, err := resolveInput(cmd, inputPath)
			if err != nil {
				return err
			}

			// Flags override fields loaded from --input
			applyIfChanged(cmd, "problem", &input.ProblemDescription, problem)
			applyIfChanged(cmd, "solution", &input.ProposedSolution, solution)
			applyIfChanged(cmd, "justification", &input.Justification, justification)
			applyIfChanged(cmd, "safety-classification", &input.SafetyClassification, safetyClassification)
			applyIfChanged(cmd, "hazard-category", &input.HazardCategory, hazardCategory)

			applyBoolIfChanged(cmd, "temporary", &input.IsTemporary, temporary)
			applyBoolIfChanged(cmd, "physical-change", &input.IsPhysicalChange, physicalChange)
			applyBoolIfChanged(cmd, "identical-replacement", &input.IsIdenticalReplacement, identicalReplacement)
			applyBoolIfChanged(cmd, "design-outside-authority", &input.IsDesignOutsideAuthority, designOutsideAuthority)
			applyBoolIfChanged(cmd, "new-procedures", &input.RequiresNewProcedures, newProcedures)
			applyBoolIfChanged(cmd, "multiple-documents", &input.RequiresMultipleDocuments, multipleDocuments)
			applyBoolIfChanged(cmd, "single-discipline", &input.IsSingleDiscipline, singleDiscipline)
			applyBoolIfChanged(cmd, "revisions-outside-authority", &input.RevisionsOutsideAuthority, revisionsOutsideAuthority)
			applyBoolIfChanged(cmd, "software-change", &input.RequiresSoftwareChange, softwareChange)
			applyBoolIfChanged(cmd, "hoisting-rigging", &input.RequiresHoistingRigging, hoistingRigging)
			applyBoolIfChanged(cmd, "fcp-applicable", &input.FacilityChangePackageApplicable, fcpApplicable)

			if input.CombinedText() == "" {
				return fmt.Errorf("change description is required; pass --problem and --solution, or provide --input")
			}

			result, err := classifier.Classify(ctx, input)
			if err != nil {
				return fmt.Errorf("classification failed: %w", err)
			}

			resolvedFormat := resolveFormat(cmd, format, defaultFormat)
			artifact := domain.ReportArtifact{
				OutputDir: outputDir,
				Report:    reportFromResult(result),
			}

			var paths []string
			if resolvedFormat == "json" || resolvedFormat == "both" {
				path, err := jsonWriter.Write(ctx, artifact)
				if err != nil {
					return fmt.Errorf("write json report: %w", err)
				}
				paths = append(paths, path)
			}
			if resolvedFormat == "markdown" || resolvedFormat == "both" {
				path, err := markdownWriter.Write(ctx, artifact)
				if err != nil {
					return fmt.Errorf("write markdown report: %w", err)
				}
				paths = append(paths, path)
			}

			printSummary(cmd.OutOrStdout(), result, paths)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Read the classification request from a JSON file (\"-\" for stdin)")
	if defaultOutput == "" {
		defaultOutput = "out"
	}
	cmd.Flags().StringVar(&outputDir, "output", defaultOutput, "Directory to write report artifacts")
	cmd.Flags().StringVar(&format, "format", "", "Report format: json, markdown, or both")

	cmd.Flags().StringVar(&problem, "problem", "", "Description of the problem driving the change")
	cmd.Flags().StringVar(&solution, "solution", "", "Description of the proposed solution")
	cmd.Flags().StringVar(&justification, "justification", "", "Justification for the change")
	cmd.Flags().StringVar(&safetyClassification, "safety-classification", "", "Safety classification (Safety-Class, Safety-Significant, General-Service)")
	cmd.Flags().StringVar(&hazardCategory, "hazard-category", "", "Facility hazard category")

	cmd.Flags().BoolVar(&temporary, "temporary", false, "Change is a temporary modification")
	cmd.Flags().BoolVar(&physicalChange, "physical-change", false, "Change physically alters the facility")
	cmd.Flags().BoolVar(&identicalReplacement, "identical-replacement", false, "Replacement component is identical to the installed one")
	cmd.Flags().BoolVar(&designOutsideAuthority, "design-outside-authority", false, "Design work falls outside the design authority's scope")
	cmd.Flags().BoolVar(&newProcedures, "new-procedures", false, "Change requires new or revised operating procedures")
	cmd.Flags().BoolVar(&multipleDocuments, "multiple-documents", false, "Change requires revising multiple controlled documents")
	cmd.Flags().BoolVar(&singleDiscipline, "single-discipline", false, "Change is confined to a single engineering discipline")
	cmd.Flags().BoolVar(&revisionsOutsideAuthority, "revisions-outside-authority", false, "Document revisions fall outside the reviser's authority")
	cmd.Flags().BoolVar(&softwareChange, "software-change", false, "Change modifies facility software")
	cmd.Flags().BoolVar(&hoistingRigging, "hoisting-rigging", false, "Change requires hoisting and rigging")
	cmd.Flags().BoolVar(&fcpApplicable, "fcp-applicable", false, "Facility change package process applies")

	return cmd
}

func historyCommand(history HistoryReader) *cobra.Command {
	var limit int
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent classification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == nil {
				return fmt.Errorf("classification history is not enabled; set store.enabled in the configuration")
			}

			ctx := cmd.Context()
			var runs []store.Run
			var err error
			if fingerprint != "" {
				runs, err = history.GetRunsByFingerprint(ctx, fingerprint)
			} else {
				runs, err = history.ListRuns(ctx, limit)
			}
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				_, _ = fmt.Fprintln(out, "no classification runs recorded")
				return nil
			}
			for _, run := range runs {
				_, _ = fmt.Fprintf(out, "%s  %s  mt=%s  type=%-3s  conf=%.2f  risk=%s\n",
					run.RunID,
					run.CreatedAt.UTC().Format(time.RFC3339),
					yesNo(run.MTRequired),
					run.DesignType,
					run.Confidence,
					run.OverallRisk,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to list")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "List only runs matching this input fingerprint")

	return cmd
}

// resolveInput loads the classification request from the --input file or,
// when stdin is piped and no file is named, from stdin.
func resolveInput(cmd *cobra.Command, inputPath string) (domain.ClassificationInput, error) {
	var input domain.ClassificationInput

	if inputPath == "" && !classify.IsInteractive() && !cmd.Flags().Changed("problem") {
		inputPath = "-"
	}
	if inputPath == "" {
		return input, nil
	}

	var reader io.Reader
	if inputPath == "-" {
		reader = cmd.InOrStdin()
	} else {
		file, err := os.Open(inputPath)
		if err != nil {
			return input, fmt.Errorf("open input file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		return input, fmt.Errorf("decode classification request: %w", err)
	}
	return input, nil
}

// resolveFormat validates the report format, falling back to the configured
// default with a warning for invalid values.
func resolveFormat(cmd *cobra.Command, cliValue, configDefault string) string {
	if configDefault == "" {
		configDefault = "markdown"
	}
	if !cmd.Flags().Changed("format") || cliValue == "" {
		return configDefault
	}

	validFormats := map[string]bool{"json": true, "markdown": true, "both": true}
	if validFormats[cliValue] {
		return cliValue
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: invalid report format %q, using default %q\n", cliValue, configDefault)
	return configDefault
}

func applyIfChanged(cmd *cobra.Command, flagName string, target *string, value string) {
	if cmd.Flags().Changed(flagName) {
		*target = value
	}
}

func applyBoolIfChanged(cmd *cobra.Command, flagName string, target *bool, value bool) {
	if cmd.Flags().Changed(flagName) {
		*target = value
	}
}

func reportFromResult(result classify.Result) domain.Report {
	return domain.Report{
		RunID:            result.RunID,
		Fingerprint:      result.Fingerprint,
		GeneratedAt:      time.Now().UTC(),
		DurationMS:       result.Duration.Milliseconds(),
		Input:            result.Input,
		Tree:             result.Tree,
		Equipment:        result.Equipment,
		ModificationType: result.ModType,
		NarrativeUsed:    result.NarrativeAvailable,
		Decision:         result.Decision,
		Risk:             result.Risk,
	}
}

func printSummary(out io.Writer, result classify.Result, paths []string) {
	_, _ = fmt.Fprintf(out, "Run:          %s\n", result.RunID)
	_, _ = fmt.Fprintf(out, "MT Required:  %s\n", yesNo(result.Decision.MTRequired))
	_, _ = fmt.Fprintf(out, "Design Type:  %s (%s)\n", result.Decision.DesignType, result.Decision.DesignType.Description())
	_, _ = fmt.Fprintf(out, "Confidence:   %.2f\n", result.Decision.Confidence)
	_, _ = fmt.Fprintf(out, "Overall Risk: %s\n", result.Risk.OverallRisk)
	_, _ = fmt.Fprintf(out, "Reason:       %s\n", result.Decision.Reason)
	if len(paths) > 0 {
		_, _ = fmt.Fprintf(out, "Reports:      %s\n", strings.Join(paths, ", "))
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
