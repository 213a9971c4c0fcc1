package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"
	yaml "gopkg.in/yaml.v2"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/exprlang"
	"github.com/shenwei356/antiseq/graph"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/pattern"
	"github.com/shenwei356/antiseq/record"
)

// pipelineSpec is the YAML shape of an antiseq pipeline description:
// one input block, a linear list of op blocks, and one or more output
// blocks. It is intentionally a thin, declarative mirror of the
// graph.Op catalogue; exprlang lowers its text fields.
type pipelineSpec struct {
	Input   inputSpec    `yaml:"input"`
	Ops     []opSpec     `yaml:"ops"`
	Outputs []outputSpec `yaml:"outputs"`
}

type inputSpec struct {
	Shape string   `yaml:"shape"` // single | siblings | interleaved
	Mates int      `yaml:"mates"` // interleaved: records per tuple
	Files []string `yaml:"files"`
}

type outputSpec struct {
	Type     string `yaml:"type"` // fastq | fastq_file | json
	Mate     int    `yaml:"mate"`
	File     string `yaml:"file"`
	Filename string `yaml:"filename"` // fastq_file: a transform-ref or format-string expression
}

type opSpec struct {
	Op string `yaml:"op"`

	// cut
	Str   string `yaml:"str"`
	Src   string `yaml:"src"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Index int    `yaml:"index"`

	// transform (before -> after)
	Transform string `yaml:"transform"`

	// retain / select
	Sel string   `yaml:"sel"`
	Ops []opSpec `yaml:"ops"`

	// trim
	Labels []string `yaml:"labels"`

	// pad
	Label  string `yaml:"label"`
	Char   string `yaml:"char"`
	Length int    `yaml:"length"`
	Side   string `yaml:"side"`

	// norm
	Min int `yaml:"min"`
	Max int `yaml:"max"`

	// match_any
	Input       string   `yaml:"input"`
	MatchType   string   `yaml:"match_type"`
	TauAbs      int      `yaml:"tau_abs"`
	TauFrac     float64  `yaml:"tau_frac"`
	Identity    float64  `yaml:"identity"`
	Overlap     float64  `yaml:"overlap"`
	Patterns    []string `yaml:"patterns"`
	OutputsList []string `yaml:"output_labels"`

	// fork
	Fork []opSpec `yaml:"fork"`
}

// loadedPipeline bundles the executable graph.Pipeline with the
// closers that must run after Pipeline.Run returns (output file
// sinks, the process-wide xopen.Reader/Writer handles).
type loadedPipeline struct {
	pipeline *graph.Pipeline
	closers  []io.Closer
}

// LoadPipelineFile reads and builds a pipeline from a YAML file path.
func LoadPipelineFile(path string) (*loadedPipeline, error) {
	ok, err := pathutil.Exists(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat pipeline file %s", path)
	}
	if !ok {
		return nil, errors.Errorf("pipeline file does not exist: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read pipeline file %s", path)
	}
	var spec pipelineSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrapf(err, "parse pipeline file %s", path)
	}
	return buildPipeline(&spec)
}

func buildPipeline(spec *pipelineSpec) (*loadedPipeline, error) {
	lp := &loadedPipeline{}

	source, err := buildInput(spec.Input, lp)
	if err != nil {
		return nil, err
	}

	ops, err := buildOps(spec.Ops, lp)
	if err != nil {
		return nil, err
	}

	for _, o := range spec.Outputs {
		op, err := buildOutput(o, lp)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	lp.pipeline = graph.NewPipeline(source, ops)
	return lp, nil
}

func buildInput(in inputSpec, lp *loadedPipeline) (graph.Op, error) {
	if len(in.Files) == 0 {
		return nil, errors.New("antiseq: input.files must not be empty")
	}
	readers := make([]io.Reader, len(in.Files))
	for i, f := range in.Files {
		rc, err := xopen.Ropen(f)
		if err != nil {
			return nil, errors.Wrapf(err, "open input file %s", f)
		}
		lp.closers = append(lp.closers, rc)
		readers[i] = rc
	}

	origin := strings.Join(in.Files, ",")
	switch in.Shape {
	case "", "single":
		return graph.NewSingleMateInput(readers[0], origin), nil
	case "siblings":
		return graph.NewSiblingMateInput(readers, origin), nil
	case "interleaved":
		k := in.Mates
		if k < 1 {
			k = 2
		}
		return graph.NewInterleavedInput(readers[0], k, origin), nil
	default:
		return nil, errors.Errorf("antiseq: unknown input shape %q", in.Shape)
	}
}

func buildOutput(o outputSpec, lp *loadedPipeline) (graph.Op, error) {
	switch o.Type {
	case "fastq":
		w, closer, err := openOutput(o.File)
		if err != nil {
			return nil, err
		}
		lp.closers = append(lp.closers, closer)
		return graph.NewOutputFastqOp(w, o.Mate), nil

	case "fastq_file":
		node, err := parseFilenameExpr(o.Filename)
		if err != nil {
			return nil, err
		}
		op := graph.NewOutputFastqFileOp(o.Mate, node)
		lp.closers = append(lp.closers, op)
		return op, nil

	case "json":
		w, closer, err := openOutput(o.File)
		if err != nil {
			return nil, err
		}
		lp.closers = append(lp.closers, closer)
		return graph.NewOutputJsonOp(w), nil

	default:
		return nil, errors.Errorf("antiseq: unknown output type %q", o.Type)
	}
}

// parseFilenameExpr accepts either a bare dot-reference ("name1.*") or
// a "{...}" format-string template for a dynamically resolved output
// filename.
func parseFilenameExpr(s string) (*expr.Node, error) {
	if strings.Contains(s, "{") {
		return expr.FormatString(s, exprlang.ResolveRef)
	}
	st, label, attr, err := exprlang.ResolveRef(s)
	if err != nil {
		return nil, err
	}
	if attr.IsEmpty() {
		return expr.LabelRef(st, label), nil
	}
	return expr.AttrRef(st, label, attr), nil
}

// outWriteCloser adapts outStream's triple into a single io.Closer
// that flushes the buffer before closing the underlying writer(s).
type outWriteCloser struct {
	buf interface{ Flush() error }
	gz  io.WriteCloser
	raw io.Closer
}

func (o *outWriteCloser) Close() error {
	var first error
	if err := o.buf.Flush(); err != nil {
		first = err
	}
	if o.gz != nil {
		if err := o.gz.Close(); err != nil && first == nil {
			first = err
		}
	}
	if o.raw != nil {
		if err := o.raw.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openOutput(file string) (io.Writer, io.Closer, error) {
	buf, gz, raw, err := outStream(file, strings.HasSuffix(file, ".gz"))
	if err != nil {
		return nil, nil, err
	}
	return buf, &outWriteCloser{buf: buf, gz: gz, raw: raw}, nil
}

func buildOps(specs []opSpec, lp *loadedPipeline) ([]graph.Op, error) {
	ops := make([]graph.Op, 0, len(specs))
	for _, s := range specs {
		op, err := buildOp(s, lp)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op...)
	}
	return ops, nil
}

func buildOp(s opSpec, lp *loadedPipeline) ([]graph.Op, error) {
	switch s.Op {
	case "cut":
		st, err := exprlang.ParseStrTypeName(s.Str)
		if err != nil {
			return nil, err
		}
		src, err := nameOrWildcard(s.Src)
		if err != nil {
			return nil, err
		}
		left, err := nameOrEmpty(s.Left)
		if err != nil {
			return nil, err
		}
		right, err := nameOrEmpty(s.Right)
		if err != nil {
			return nil, err
		}
		return []graph.Op{&graph.CutOp{
			StrType: st, Src: src, Left: left, Right: right,
			IndexExpr: expr.Literal(expr.IntData(int64(s.Index))),
		}}, nil

	case "transform":
		return exprlang.ParseTransform(s.Transform)

	case "retain":
		node, err := exprlang.ParseSelector(s.Sel)
		if err != nil {
			return nil, err
		}
		return []graph.Op{&graph.RetainOp{Expr: node}}, nil

	case "select":
		node, err := exprlang.ParseSelector(s.Sel)
		if err != nil {
			return nil, err
		}
		sub, err := buildOps(s.Ops, lp)
		if err != nil {
			return nil, err
		}
		return []graph.Op{&graph.SelectOp{Expr: node, SubGraph: sub}}, nil

	case "fork":
		sub, err := buildOps(s.Fork, lp)
		if err != nil {
			return nil, err
		}
		return []graph.Op{&graph.ForkOp{SubGraph: sub}}, nil

	case "trim":
		st, err := exprlang.ParseStrTypeName(s.Str)
		if err != nil {
			return nil, err
		}
		names, err := nameList(s.Labels)
		if err != nil {
			return nil, err
		}
		return []graph.Op{&graph.TrimOp{StrType: st, Labels: names}}, nil

	case "pad":
		st, err := exprlang.ParseStrTypeName(s.Str)
		if err != nil {
			return nil, err
		}
		label, err := nameOrEmpty(s.Label)
		if err != nil {
			return nil, err
		}
		side := expr.Left
		if s.Side == "right" {
			side = expr.Right
		}
		ch := byte('A')
		if len(s.Char) > 0 {
			ch = s.Char[0]
		}
		return []graph.Op{&graph.PadOp{StrType: st, Label: label, Char: ch, Length: s.Length, Side: side}}, nil

	case "norm":
		st, err := exprlang.ParseStrTypeName(s.Str)
		if err != nil {
			return nil, err
		}
		label, err := nameOrEmpty(s.Label)
		if err != nil {
			return nil, err
		}
		return []graph.Op{&graph.NormOp{StrType: st, Label: label, Range: expr.NormalizeRange{Min: s.Min, Max: s.Max}}}, nil

	case "match_any":
		return buildMatchAny(s)

	default:
		return nil, errors.Errorf("antiseq: unknown op %q", s.Op)
	}
}

func buildMatchAny(s opSpec) ([]graph.Op, error) {
	st, err := exprlang.ParseStrTypeName(s.Str)
	if err != nil {
		return nil, err
	}
	input, err := nameOrWildcard(s.Input)
	if err != nil {
		return nil, err
	}
	outputs, err := nameList(s.OutputsList)
	if err != nil {
		return nil, err
	}

	mt, err := parseMatchType(s)
	if err != nil {
		return nil, err
	}

	pats := &pattern.Patterns{}
	for _, lit := range s.Patterns {
		pats.Items = append(pats.Items, pattern.Pattern{Kind: pattern.KindLiteral, Literal: []byte(lit)})
	}

	return []graph.Op{&graph.MatchAnyOp{
		StrType:      st,
		InputLabel:   input,
		Patterns:     pats,
		MatchType:    mt,
		OutputLabels: outputs,
	}}, nil
}

func parseMatchType(s opSpec) (pattern.MatchType, error) {
	tag, ok := matchTypeTags[s.MatchType]
	if !ok {
		return pattern.MatchType{}, errors.Errorf("antiseq: unknown match_type %q", s.MatchType)
	}
	tau := pattern.AbsTau(s.TauAbs)
	if s.TauFrac > 0 {
		tau = pattern.FracTau(s.TauFrac)
	}
	return pattern.MatchType{Tag: tag, Tau: tau, Identity: s.Identity, Overlap: s.Overlap}, nil
}

var matchTypeTags = map[string]pattern.MatchTypeTag{
	"exact":          pattern.Exact,
	"exact_prefix":   pattern.ExactPrefix,
	"exact_suffix":   pattern.ExactSuffix,
	"exact_search":   pattern.ExactSearch,
	"hamming":        pattern.Hamming,
	"hamming_prefix": pattern.HammingPrefix,
	"hamming_suffix": pattern.HammingSuffix,
	"hamming_search": pattern.HammingSearch,
	"global_aln":     pattern.GlobalAln,
	"local_aln":      pattern.LocalAln,
	"prefix_aln":     pattern.PrefixAln,
	"suffix_aln":     pattern.SuffixAln,
}

func nameOrWildcard(s string) (ikey.Name, error) {
	if s == "" || s == "*" {
		return record.WildcardLabel, nil
	}
	return ikey.New(s)
}

func nameOrEmpty(s string) (ikey.Name, error) {
	if s == "" {
		return ikey.Name{}, nil
	}
	return ikey.New(s)
}

func nameList(ss []string) ([]ikey.Name, error) {
	out := make([]ikey.Name, len(ss))
	for i, s := range ss {
		n, err := nameOrWildcard(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
