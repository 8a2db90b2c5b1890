package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/pysim/domain"
)

// OutputFormatterImpl implements domain.SimilarityOutputFormatter
type OutputFormatterImpl struct {
	// ShowDetails adds distance, mode and fallback reason to text output
	ShowDetails bool
}

// NewOutputFormatter creates a new output formatter service
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// FormatBatch writes batch results in the given format. The text format
// prints one rounded coefficient per line in manifest order.
func (f *OutputFormatterImpl) FormatBatch(response *domain.BatchResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.formatBatchText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, roundBatch(response))
	case domain.OutputFormatYAML:
		return WriteYAML(writer, roundBatch(response))
	case domain.OutputFormatCSV:
		return f.formatResultsCSV(response.Results, response.Precision, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatScan writes scan results in the given format
func (f *OutputFormatterImpl) FormatScan(response *domain.ScanResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.formatScanText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, roundScan(response))
	case domain.OutputFormatYAML:
		return WriteYAML(writer, roundScan(response))
	case domain.OutputFormatCSV:
		return f.formatResultsCSV(response.Matches, response.Precision, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) formatBatchText(response *domain.BatchResponse, writer io.Writer) error {
	var builder strings.Builder
	for _, result := range response.Results {
		builder.WriteString(FormatCoefficient(result.Coefficient, response.Precision))
		if f.ShowDetails {
			builder.WriteString("\t" + f.details(result))
		}
		builder.WriteString("\n")
	}

	if _, err := io.WriteString(writer, builder.String()); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) formatScanText(response *domain.ScanResponse, writer io.Writer) error {
	var builder strings.Builder
	utils := NewFormatUtils()

	builder.WriteString(utils.FormatMainHeader("Similarity Scan Report"))
	builder.WriteString(utils.FormatLabel("Files scanned", response.FilesScanned))
	builder.WriteString(utils.FormatLabel("Pairs compared", response.PairsCompared))
	builder.WriteString(utils.FormatLabel("Duration", utils.FormatDuration(response.Duration)))
	builder.WriteString(utils.FormatSectionSeparator())

	builder.WriteString(utils.FormatSectionHeader("Similar pairs"))
	if len(response.Matches) == 0 {
		builder.WriteString("No similar pairs found.\n")
	}
	for _, match := range response.Matches {
		fmt.Fprintf(&builder, "%-8s %s <-> %s",
			FormatCoefficient(match.Coefficient, response.Precision), match.First, match.Second)
		if f.ShowDetails {
			builder.WriteString("  (" + f.details(match) + ")")
		}
		builder.WriteString("\n")
	}
	builder.WriteString(utils.FormatSectionSeparator())

	if response.Statistics != nil {
		builder.WriteString(utils.FormatStatistics(response.Statistics, response.Precision))
	}

	if _, err := io.WriteString(writer, builder.String()); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) details(result *domain.PairResult) string {
	text := fmt.Sprintf("%s %s distance=%d mode=%s", result.First, result.Second, result.Distance, result.Mode)
	if result.FallbackReason != "" {
		text += " reason=" + strconv.Quote(result.FallbackReason)
	}
	return text
}

func (f *OutputFormatterImpl) formatResultsCSV(results []*domain.PairResult, precision int, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{"first", "second", "coefficient", "distance", "mode", "fallback_reason"}
	if err := csvWriter.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, result := range results {
		record := []string{
			result.First,
			result.Second,
			FormatCoefficient(result.Coefficient, precision),
			strconv.Itoa(result.Distance),
			string(result.Mode),
			result.FallbackReason,
		}
		if err := csvWriter.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}

// roundBatch returns a copy of the response with coefficients rounded to
// its precision
func roundBatch(response *domain.BatchResponse) *domain.BatchResponse {
	rounded := *response
	rounded.Results = roundResults(response.Results, response.Precision)
	rounded.Statistics = roundStatistics(response.Statistics, response.Precision)
	return &rounded
}

func roundScan(response *domain.ScanResponse) *domain.ScanResponse {
	rounded := *response
	rounded.Matches = roundResults(response.Matches, response.Precision)
	rounded.Statistics = roundStatistics(response.Statistics, response.Precision)
	return &rounded
}

func roundResults(results []*domain.PairResult, precision int) []*domain.PairResult {
	rounded := make([]*domain.PairResult, len(results))
	for i, r := range results {
		c := *r
		c.Coefficient = RoundCoefficient(r.Coefficient, precision)
		rounded[i] = &c
	}
	return rounded
}

func roundStatistics(stats *domain.BatchStatistics, precision int) *domain.BatchStatistics {
	if stats == nil {
		return nil
	}
	rounded := *stats
	rounded.MinCoefficient = RoundCoefficient(stats.MinCoefficient, precision)
	rounded.MaxCoefficient = RoundCoefficient(stats.MaxCoefficient, precision)
	rounded.AvgCoefficient = RoundCoefficient(stats.AvgCoefficient, precision)
	return &rounded
}
