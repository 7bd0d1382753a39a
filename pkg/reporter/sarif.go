package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// Tool metadata reported in the SARIF driver.
const (
	toolName           = "goyamllint"
	toolInformationURI = "https://github.com/yaklabco/goyamllint"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Results     []SARIFResult     `json:"results"`
	Invocations []SARIFInvocation `json:"invocations,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule (linter check).
type SARIFRule struct {
	ID               string               `json:"id"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any       `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single problem.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFInvocation records files that could not be analyzed.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification is a tool failure for one file.
type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           toolName,
				Version:        r.opts.ToolVersion,
				InformationURI: toolInformationURI,
				Rules:          make([]SARIFRule, 0, len(r.opts.Rules)),
			},
		},
		Results: make([]SARIFResult, 0),
	}

	ruleIndex := make(map[string]int, len(r.opts.Rules))
	addRule := func(rule SARIFRule) int {
		if i, ok := ruleIndex[rule.ID]; ok {
			return i
		}
		ruleIndex[rule.ID] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
		return ruleIndex[rule.ID]
	}

	for _, rule := range r.opts.Rules {
		addRule(SARIFRule{
			ID:               rule.ID(),
			ShortDescription: SARIFMultiformatText{Text: rule.Description()},
			DefaultConfig:    &SARIFRuleConfig{Level: levelToSARIF(rule.DefaultLevel())},
			Properties:       map[string]any{"tags": rule.Tags()},
		})
	}

	output := &SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion}
	if result == nil {
		output.Runs = []SARIFRun{run}
		return output
	}

	var failures []SARIFNotification
	for _, file := range result.Files {
		location := SARIFLocation{PhysicalLocation: SARIFPhysicalLocation{
			ArtifactLocation: SARIFArtifactLocation{URI: file.Path},
		}}

		if file.Error != nil {
			failures = append(failures, SARIFNotification{
				Level:     "error",
				Message:   SARIFMessage{Text: file.Error.Error()},
				Locations: []SARIFLocation{location},
			})
		}

		for _, p := range visible(file, r.opts.NoWarnings) {
			index, ok := ruleIndex[p.RuleID]
			if !ok {
				description := p.RuleID
				if p.Class == lint.ClassSyntax {
					description = "YAML syntax error"
				}
				index = addRule(SARIFRule{ID: p.RuleID, ShortDescription: SARIFMultiformatText{Text: description}})
			}

			loc := location
			loc.PhysicalLocation.Region = SARIFRegion{StartLine: p.Line, StartColumn: p.Column}
			run.Results = append(run.Results, SARIFResult{
				RuleID:    p.RuleID,
				RuleIndex: index,
				Level:     levelToSARIF(p.Level),
				Message:   SARIFMessage{Text: p.Message},
				Locations: []SARIFLocation{loc},
			})
		}
	}

	if len(failures) > 0 {
		run.Invocations = []SARIFInvocation{{ExecutionSuccessful: false, ToolExecutionNotifications: failures}}
	}

	output.Runs = []SARIFRun{run}
	return output
}

// levelToSARIF converts a problem level to a SARIF level.
func levelToSARIF(level config.Severity) string {
	if level == config.SeverityWarning {
		return "warning"
	}
	return "error"
}
