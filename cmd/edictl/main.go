package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/edigate/internal/common"
	"example.com/edigate/internal/dict"
	"example.com/edigate/internal/edifact"
	"example.com/edigate/internal/report"
	"example.com/edigate/internal/utilmd"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]
	switch cmd {
	case "convert":
		convertCmd(os.Args[2:])
	case "generate":
		generateCmd(os.Args[2:])
	case "batch":
		batchCmd(os.Args[2:])
	case "detect":
		detectCmd(os.Args[2:])
	case "inspect":
		inspectCmd(os.Args[2:])
	case "manifest":
		manifestCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Printf(`edictl %s (built %s) <command> [options]

Commands:
  convert   --in <file.edi> [--version FV2204|FV2310|auto] [--out <transactions.json>] [--pretty]
  generate  --in <transactions.json> --version <FV2204|FV2310> [--out <file.edi>]
  batch     --in <dir> --out-dir <dir> [--version auto] [--concurrency N] [--config <config.yaml>] [--report <report.json>] [--pdf <report.pdf>] [--audit <audit.jsonl>] [--metrics] [--progress]
  detect    --in <file.edi>
  inspect   --in <file.edi> [--dict <qualifiers.yaml>]
  manifest  --inputs <comma-separated> --out <manifest.json> [--qr <digest.png>]
  report    --report <report.json> --pdf <out.pdf> [--lang en|de]
`, version, buildDate)
}

type logConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type config struct {
	Concurrency int       `yaml:"concurrency"`
	Dictionary  string    `yaml:"dictionary"`
	Lang        string    `yaml:"lang"`
	Logs        logConfig `yaml:"logs"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	return cfg, nil
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func setupLogging(cfg config) error {
	if cfg.Logs.Directory == "" {
		return nil
	}
	return common.SetupRotatingLog(common.LogRotation{
		Directory:  cfg.Logs.Directory,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	})
}

func parseVersion(s string) (utilmd.FormatVersion, bool, error) {
	switch strings.TrimSpace(s) {
	case "", "auto":
		return utilmd.VersionUnknown, true, nil
	case string(utilmd.Version2204):
		return utilmd.Version2204, false, nil
	case string(utilmd.Version2310):
		return utilmd.Version2310, false, nil
	default:
		return utilmd.VersionUnknown, false, fmt.Errorf("unknown format version %q", s)
	}
}

func resolveVersion(data []byte, flagValue string) (utilmd.FormatVersion, error) {
	v, auto, err := parseVersion(flagValue)
	if err != nil {
		return utilmd.VersionUnknown, err
	}
	if !auto {
		return v, nil
	}
	detected := utilmd.DetectVersion(data)
	if detected == utilmd.VersionUnknown {
		return utilmd.VersionUnknown, fmt.Errorf("could not detect format version")
	}
	return detected, nil
}

func convertCmd(args []string) {
	fs := newFlagSet("convert")
	in := fs.String("in", "", "input EDIFACT file")
	versionFlag := fs.String("version", "auto", "format version")
	out := fs.String("out", "", "output JSON file (default stdout)")
	pretty := fs.Bool("pretty", false, "indent JSON output")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Println("read input:", err)
		os.Exit(1)
	}
	v, err := resolveVersion(data, *versionFlag)
	if err != nil {
		fmt.Println("version:", err)
		os.Exit(1)
	}
	txs, err := utilmd.Parse(data, v)
	if err != nil {
		fmt.Println("parse:", err)
		os.Exit(1)
	}
	var b []byte
	if *pretty {
		b, err = json.MarshalIndent(txs, "", "  ")
	} else {
		b, err = json.Marshal(txs)
	}
	if err != nil {
		fmt.Println("marshal:", err)
		os.Exit(1)
	}
	if *out == "" {
		fmt.Println(string(b))
		return
	}
	if err := os.WriteFile(*out, append(b, '\n'), 0644); err != nil {
		fmt.Println("write output:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d transactions, %s)\n", *out, len(txs), v)
}

func generateCmd(args []string) {
	fs := newFlagSet("generate")
	in := fs.String("in", "", "input transactions JSON")
	versionFlag := fs.String("version", "", "format version")
	out := fs.String("out", "", "output EDIFACT file (default stdout)")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	v, auto, err := parseVersion(*versionFlag)
	if err != nil || auto {
		fmt.Println("required: --version FV2204 or FV2310")
		os.Exit(1)
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Println("read input:", err)
		os.Exit(1)
	}
	txs, err := decodeTransactions(data)
	if err != nil {
		fmt.Println("decode transactions:", err)
		os.Exit(1)
	}
	var buf []byte
	for i := range txs {
		edi, err := utilmd.Generate(&txs[i], v)
		if err != nil {
			fmt.Printf("generate transaction %d: %v\n", i, err)
			os.Exit(1)
		}
		buf = append(buf, edi...)
		buf = append(buf, '\n')
	}
	if *out == "" {
		os.Stdout.Write(buf)
		return
	}
	if err := os.WriteFile(*out, buf, 0644); err != nil {
		fmt.Println("write output:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d interchanges)\n", *out, len(txs))
}

// decodeTransactions accepts either a single transaction object or an array.
func decodeTransactions(data []byte) ([]utilmd.Transaction, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var txs []utilmd.Transaction
		if err := json.Unmarshal(data, &txs); err != nil {
			return nil, err
		}
		return txs, nil
	}
	var tx utilmd.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, err
	}
	return []utilmd.Transaction{tx}, nil
}

func batchCmd(args []string) {
	fs := newFlagSet("batch")
	inDir := fs.String("in", ".", "input directory")
	outDir := fs.String("out-dir", "out", "results directory")
	versionFlag := fs.String("version", "auto", "format version")
	concurrency := fs.Int("concurrency", 0, "maximum concurrent conversions")
	configPath := fs.String("config", "", "configuration file")
	reportPath := fs.String("report", "", "conversion report JSON output")
	pdfPath := fs.String("pdf", "", "conversion report PDF output")
	auditPath := fs.String("audit", "", "audit log output (jsonl)")
	langFlag := fs.String("lang", "", "report language")
	metricsFlag := fs.Bool("metrics", false, "print conversion throughput metrics")
	progressFlag := fs.Bool("progress", false, "display conversion progress updates")
	fs.Parse(args)

	var cfg config
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Println("config:", err)
			os.Exit(1)
		}
		cfg = loaded
		if err := setupLogging(cfg); err != nil {
			fmt.Println("logging:", err)
			os.Exit(1)
		}
	}
	workers := *concurrency
	if workers <= 0 {
		workers = cfg.Concurrency
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	lang := *langFlag
	if lang == "" {
		lang = cfg.Lang
	}

	inputs, err := collectInputs(*inDir)
	if err != nil {
		fmt.Println("scan inputs:", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Println("no EDIFACT files found in", *inDir)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Println("create out dir:", err)
		os.Exit(1)
	}

	var audit *common.AuditLog
	if *auditPath != "" {
		audit = common.NewAuditLog(*auditPath)
	}

	metrics := common.NewConvertMetrics()
	var total int64
	buffers := make([][]byte, len(inputs))
	versions := make([]utilmd.FormatVersion, len(inputs))
	readErrs := make([]error, len(inputs))
	for i, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			readErrs[i] = err
			continue
		}
		buffers[i] = data
		total += int64(len(data))
		v, err := resolveVersion(data, *versionFlag)
		if err != nil {
			readErrs[i] = err
			continue
		}
		versions[i] = v
	}
	metrics.SetTotalBytes(total)
	metrics.Start()
	var stopProgress func()
	if *progressFlag {
		stopProgress = common.StartProgressPrinter(os.Stderr, metrics, 500*time.Millisecond)
	}

	results := convertGrouped(buffers, versions, readErrs, workers)

	var inputResults []report.InputResult
	failures := 0
	for i, path := range inputs {
		res := results[i]
		name := filepath.Base(path)
		ir := report.InputResult{
			Input:     name,
			Version:   string(versions[i]),
			Size:      int64(len(buffers[i])),
			Malformed: res.Malformed,
		}
		if res.Err != nil {
			ir.Error = res.Err.Error()
			failures++
			metrics.IncFailure()
			common.Logf("convert %s: %v", name, res.Err)
		} else {
			ir.Transactions = len(res.Transactions)
			metrics.AddInterchange(ir.Size, ir.Transactions)
			outPath := filepath.Join(*outDir, strings.TrimSuffix(name, filepath.Ext(name))+".json")
			b, err := json.MarshalIndent(res.Transactions, "", "  ")
			if err == nil {
				err = os.WriteFile(outPath, append(b, '\n'), 0644)
			}
			if err != nil {
				ir.Error = err.Error()
				failures++
				metrics.IncFailure()
			}
		}
		inputResults = append(inputResults, ir)
		if audit != nil {
			entry := common.AuditEntry{
				Input:        name,
				Sha256:       common.Sha256OfBytes(buffers[i]),
				Size:         ir.Size,
				Version:      ir.Version,
				Transactions: ir.Transactions,
				Malformed:    ir.Malformed,
				Error:        ir.Error,
			}
			if err := audit.Append(entry); err != nil {
				common.Logf("audit append: %v", err)
			}
		}
	}
	if stopProgress != nil {
		stopProgress()
	}
	metrics.Stop()

	rep := report.Build(inputResults)
	if *reportPath != "" {
		if err := report.SaveJSON(rep, *reportPath); err != nil {
			fmt.Println("write report:", err)
			os.Exit(1)
		}
	}
	if *pdfPath != "" {
		language, err := report.ParseLanguage(lang)
		if err != nil {
			fmt.Println("lang:", err)
			os.Exit(1)
		}
		if err := report.SavePDF(rep, language, *pdfPath); err != nil {
			fmt.Println("write pdf:", err)
			os.Exit(1)
		}
	}

	fmt.Printf("PASS=%v, inputs=%d, transactions=%d, failures=%d\n",
		rep.Summary.Pass, rep.Summary.Inputs, rep.Summary.Transactions, rep.Summary.Failures)
	if *metricsFlag {
		snap := metrics.Snapshot()
		fmt.Printf("Metrics: duration=%s interchanges=%d transactions=%d processed=%s throughput=%.2f MB/s\n",
			snap.Duration.Round(10*time.Millisecond),
			snap.Interchanges,
			snap.Transactions,
			common.FormatBytes(snap.Bytes),
			snap.ThroughputBytesPerSecond()/1_000_000,
		)
	}
	if failures > 0 {
		os.Exit(1)
	}
}

// convertGrouped partitions the inputs by detected version, runs each group
// through the parallel batch converter and reassembles the results in
// input order. Inputs with read or detection errors are passed through.
func convertGrouped(buffers [][]byte, versions []utilmd.FormatVersion, readErrs []error, workers int) []utilmd.BatchResult {
	results := make([]utilmd.BatchResult, len(buffers))
	groups := make(map[utilmd.FormatVersion][]int)
	for i := range buffers {
		if readErrs[i] != nil {
			results[i] = utilmd.BatchResult{Err: readErrs[i]}
			continue
		}
		groups[versions[i]] = append(groups[versions[i]], i)
	}
	for v, indices := range groups {
		inputs := make([][]byte, len(indices))
		for j, i := range indices {
			inputs[j] = buffers[i]
		}
		batch := utilmd.ConvertBatch(inputs, v, workers)
		for j, i := range indices {
			results[i] = batch[j]
		}
	}
	return results
}

func collectInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".edi", ".txt":
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func detectCmd(args []string) {
	fs := newFlagSet("detect")
	in := fs.String("in", "", "input EDIFACT file")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Println("read input:", err)
		os.Exit(1)
	}
	v := utilmd.DetectVersion(data)
	if v == utilmd.VersionUnknown {
		fmt.Println("unknown")
		os.Exit(1)
	}
	fmt.Println(v)
}

type inspectRow struct {
	pos       edifact.Position
	id        string
	qualifier string
	elements  int
}

type inspectHandler struct {
	edifact.NopHandler
	rows      []inspectRow
	malformed int
}

func (h *inspectHandler) OnSegment(seg *edifact.Segment) edifact.Flow {
	h.rows = append(h.rows, inspectRow{
		pos:       seg.Pos,
		id:        seg.ID,
		qualifier: seg.Component(0, 0),
		elements:  len(seg.Elements),
	})
	return edifact.Continue
}

func (h *inspectHandler) OnError(pos edifact.Position, err error) edifact.Flow {
	h.malformed++
	return edifact.Continue
}

func inspectCmd(args []string) {
	fs := newFlagSet("inspect")
	in := fs.String("in", "", "input EDIFACT file")
	dictPath := fs.String("dict", "", "qualifier dictionary YAML")
	fs.Parse(args)

	if *in == "" {
		fmt.Println("required: --in")
		os.Exit(1)
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Println("read input:", err)
		os.Exit(1)
	}
	store := dict.Default()
	if *dictPath != "" {
		store, err = dict.EnsureLoaded(*dictPath)
		if err != nil {
			fmt.Println("dictionary:", err)
			os.Exit(1)
		}
	}

	h := &inspectHandler{}
	edifact.Scan(data, h)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEG\tMSG\tOFFSET\tID\tQUALIFIER\tELEMENTS")
	for _, row := range h.rows {
		qualifier := row.qualifier
		if qualifier != "" {
			qualifier = store.Describe(row.id, qualifier)
		} else {
			qualifier = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%d\n",
			row.pos.SegNum, row.pos.MsgNum, row.pos.Offset, row.id, qualifier, row.elements)
	}
	w.Flush()
	if h.malformed > 0 {
		fmt.Printf("Warning: %d malformed segment(s) skipped\n", h.malformed)
	}
}

func manifestCmd(args []string) {
	fs := newFlagSet("manifest")
	inputs := fs.String("inputs", "", "comma-separated paths")
	out := fs.String("out", "manifest.json", "output json")
	qrOut := fs.String("qr", "", "output digest QR PNG")
	fs.Parse(args)

	if *inputs == "" {
		fmt.Println("required: --inputs")
		os.Exit(1)
	}
	var paths []string
	for _, p := range strings.Split(*inputs, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		fmt.Println("no input paths specified")
		os.Exit(1)
	}

	m, err := report.BuildManifest(paths)
	if err != nil {
		fmt.Println("manifest build:", err)
		os.Exit(1)
	}
	if err := report.SaveManifest(m, *out); err != nil {
		fmt.Println("manifest save:", err)
		os.Exit(1)
	}
	fmt.Println("Wrote", *out)

	if *qrOut != "" {
		png, err := m.DigestQR(256)
		if err != nil {
			fmt.Println("qr encode:", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*qrOut, png, 0644); err != nil {
			fmt.Println("write qr:", err)
			os.Exit(1)
		}
		fmt.Println("Wrote", *qrOut)
	}
}

func reportCmd(args []string) {
	fs := newFlagSet("report")
	reportPath := fs.String("report", "", "conversion report JSON")
	pdfPath := fs.String("pdf", "", "output report PDF")
	langFlag := fs.String("lang", "en", "report language")
	fs.Parse(args)

	if *reportPath == "" || *pdfPath == "" {
		fmt.Println("required: --report, --pdf")
		os.Exit(1)
	}
	rep, err := report.LoadJSON(*reportPath)
	if err != nil {
		fmt.Println("load report:", err)
		os.Exit(1)
	}
	language, err := report.ParseLanguage(*langFlag)
	if err != nil {
		fmt.Println("lang:", err)
		os.Exit(1)
	}
	if err := report.SavePDF(rep, language, *pdfPath); err != nil {
		fmt.Println("write pdf:", err)
		os.Exit(1)
	}
	fmt.Println("Wrote PDF:", *pdfPath)
}
