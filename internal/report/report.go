// Package report renders clustering results for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/idpc"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// Params records the parameters a run used.
type Params struct {
	Centers       int  `json:"centers" yaml:"centers"`
	CutoffMethod  int  `json:"dc_method" yaml:"dc_method"`
	CutoffPercent int  `json:"dc_percent" yaml:"dc_percent"`
	DensityMethod int  `json:"rho_method" yaml:"rho_method"`
	Halo          bool `json:"halo" yaml:"halo"`
}

// Cluster summarizes one cluster.
type Cluster struct {
	Center  int   `json:"center" yaml:"center"`
	Size    int   `json:"size" yaml:"size"`
	Members []int `json:"members,omitempty" yaml:"members,omitempty"`
}

// Summary is the printable form of one run.
type Summary struct {
	Dataset         string    `json:"dataset" yaml:"dataset"`
	RunID           string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Points          int       `json:"points" yaml:"points"`
	Params          Params    `json:"params" yaml:"params"`
	Cutoff          float64   `json:"dc" yaml:"dc"`
	CutoffFraction  float64   `json:"dc_fraction" yaml:"dc_fraction"`
	CutoffConverged bool      `json:"dc_converged" yaml:"dc_converged"`
	Centers         []int     `json:"centers" yaml:"centers"`
	Clusters        []Cluster `json:"clusters" yaml:"clusters"`
	Halo            []int     `json:"halo" yaml:"halo"`
	Borders         []int     `json:"border_representatives" yaml:"border_representatives"`
	Labels          []int     `json:"labels,omitempty" yaml:"labels,omitempty"`
	Rho             []float64 `json:"rho,omitempty" yaml:"rho,omitempty"`
	Delta           []float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
	Error           string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSummary builds a Summary from a finished run. With points set, the
// summary also carries cluster members and per-point labels, rho and delta.
func NewSummary(dataset, runID string, cfg idpc.Config, res *idpc.Result, points bool) Summary {
	s := Summary{
		Dataset: dataset,
		RunID:   runID,
		Points:  len(res.Rho),
		Params: Params{
			Centers:       cfg.Centers,
			CutoffMethod:  int(cfg.CutoffMethod),
			CutoffPercent: cfg.CutoffPercent,
			DensityMethod: int(cfg.DensityMethod),
			Halo:          cfg.Halo,
		},
		Cutoff:          res.Cutoff.Distance,
		CutoffFraction:  res.Cutoff.Fraction,
		CutoffConverged: res.Cutoff.Converged,
		Centers:         res.Centers,
		Halo:            res.Halo,
		Borders:         res.BorderRepresentatives,
	}
	for _, c := range res.Centers {
		members := res.Clusters[c]
		cl := Cluster{Center: c, Size: len(members)}
		if points {
			cl.Members = members
		}
		s.Clusters = append(s.Clusters, cl)
	}
	if points {
		s.Labels = res.Labels
		s.Rho = res.Rho
		s.Delta = res.Delta
	}
	return s
}

// Failed builds a Summary for a run that did not complete.
func Failed(dataset, runID string, err error) Summary {
	return Summary{Dataset: dataset, RunID: runID, Error: err.Error()}
}

// Write encodes summaries to w. JSON and YAML emit a single summary as an
// object and several as a list.
func Write(w io.Writer, f Format, summaries ...Summary) error {
	var v any = summaries
	if len(summaries) == 1 {
		v = summaries[0]
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		for i, s := range summaries {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, renderText(s)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func renderText(s Summary) string {
	var b strings.Builder

	title := s.Dataset
	if s.RunID != "" {
		title += " (" + s.RunID + ")"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')

	if s.Error != "" {
		b.WriteString(errStyle.Render("error: " + s.Error))
		b.WriteByte('\n')
		return b.String()
	}

	field := func(k, v string) {
		fmt.Fprintf(&b, "  %s %s\n", keyStyle.Render(k+":"), v)
	}
	field("points", fmt.Sprint(s.Points))
	field("params", fmt.Sprintf("n=%d dc_method=%d dc_percent=%d rho_method=%d halo=%t",
		s.Params.Centers, s.Params.CutoffMethod, s.Params.CutoffPercent, s.Params.DensityMethod, s.Params.Halo))
	conv := ""
	if !s.CutoffConverged {
		conv = " (outside window)"
	}
	field("dc", fmt.Sprintf("%.6g fraction=%.4f%s", s.Cutoff, s.CutoffFraction, conv))
	field("centers", fmt.Sprint(s.Centers))

	clusters := slices.Clone(s.Clusters)
	slices.SortStableFunc(clusters, func(a, b Cluster) int { return b.Size - a.Size })
	for _, c := range clusters {
		field(fmt.Sprintf("cluster %d", c.Center), fmt.Sprintf("%d points", c.Size))
	}
	if s.Params.Halo {
		field("halo", fmt.Sprintf("%d points", len(s.Halo)))
		field("borders", fmt.Sprint(s.Borders))
	}
	return b.String()
}
