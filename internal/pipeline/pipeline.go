// Package pipeline runs one reconciliation: load, normalize, join, enrich,
// gate, audit, remediate and report.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/winerecon/internal/audit"
	"github.com/sells-group/winerecon/internal/config"
	"github.com/sells-group/winerecon/internal/gate"
	"github.com/sells-group/winerecon/internal/metric"
	"github.com/sells-group/winerecon/internal/model"
	"github.com/sells-group/winerecon/internal/normalize"
	"github.com/sells-group/winerecon/internal/reconcile"
	"github.com/sells-group/winerecon/internal/remediate"
	"github.com/sells-group/winerecon/internal/report"
	"github.com/sells-group/winerecon/internal/source"
	"github.com/sells-group/winerecon/internal/store"
)

// Pipeline orchestrates a reconciliation run.
type Pipeline struct {
	cfg   *config.Config
	store store.Store // nil disables run history
}

// New creates a Pipeline. st may be nil.
func New(cfg *config.Config, st store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, store: st}
}

// Result is the outcome of a run.
type Result struct {
	RunID       string                   `json:"run_id,omitempty"`
	Status      model.RunStatus          `json:"status"`
	Summary     model.RunSummary         `json:"summary"`
	Join        reconcile.JoinStats      `json:"join"`
	Prices      metric.Stats             `json:"prices"`
	Gate        gate.Result              `json:"-"`
	Audit       audit.Report             `json:"-"`
	Remediation remediate.Summary        `json:"remediation"`
	Readiness   []string                 `json:"readiness_problems,omitempty"`
	Reconciled  []model.ReconciledRecord `json:"-"`
	Migratable  []model.ReconciledRecord `json:"-"`
	Catalogue   []model.WebRecord        `json:"-"`
	Reports     []string                 `json:"reports,omitempty"`
}

// summaryDoc is what summary.json holds.
type summaryDoc struct {
	RunID string `json:"run_id,omitempty"`
	model.RunSummary
	Join           reconcile.JoinStats `json:"join"`
	Prices         metric.Stats        `json:"prices"`
	OutlierPreview []audit.Outlier     `json:"outlier_preview,omitempty"`
	Remediation    remediate.Summary   `json:"remediation"`
	Readiness      []string            `json:"readiness_problems,omitempty"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

type sources struct {
	inventory []model.InventoryRecord
	web       []model.WebRecord
	links     []model.LinkRecord
}

// Run executes the pipeline once. A failed quality gate returns the result
// together with a *gate.GateError and writes no reports. Any other error
// marks the run failed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.cfg
	log := zap.L().With(zap.String("component", "pipeline"))

	kind, err := reconcile.ParseJoinKind(cfg.Pipeline.JoinKind)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: join kind")
	}
	mode, err := metric.ParseStdDevMode(cfg.Pipeline.StdDev)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: stddev mode")
	}

	res := &Result{Status: model.RunStatusRunning}
	res.Summary.JoinKind = string(kind)

	var run *model.Run
	if p.store != nil {
		run, err = p.store.CreateRun(ctx, string(kind))
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		res.RunID = run.ID
		log = log.With(zap.String("run_id", run.ID))
	}
	log.Info("pipeline: starting reconciliation", zap.String("join_kind", string(kind)))

	fail := func(err error) (*Result, error) {
		res.Status = model.RunStatusFailed
		res.Summary.Error = err.Error()
		log.Error("pipeline: run failed", zap.Error(err))
		p.finish(ctx, log, res)
		return res, err
	}

	// ===== Load + normalize =====
	src, err := p.load(ctx)
	if err != nil {
		return fail(err)
	}
	products := reconcile.FilterProducts(src.web)
	links := reconcile.CleanLinks(src.links)
	res.Summary.Counts = model.StageCounts{
		Inventory:   len(src.inventory),
		Web:         len(src.web),
		WebProducts: len(products),
		Links:       len(src.links),
		LinksClean:  len(links),
	}
	log.Info("pipeline: sources normalized",
		zap.Int("inventory", len(src.inventory)),
		zap.Int("web_products", len(products)),
		zap.Int("web_dropped_non_product", len(src.web)-len(products)),
		zap.Int("links_clean", len(links)),
		zap.Int("links_dropped", len(src.links)-len(links)),
	)

	// ===== Join + metrics =====
	rows, jstats := reconcile.Join(src.inventory, links, products, kind)
	rows, prices := metric.Enrich(rows, metric.Options{Mode: mode, PremiumThreshold: cfg.Pipeline.PremiumThreshold})
	res.Join = jstats
	res.Prices = prices
	res.Reconciled = rows
	res.Summary.Counts.Reconciled = len(rows)
	res.Summary.TotalRevenue = metric.TotalRevenue(rows).InexactFloat64()
	log.Info("pipeline: reconciled",
		zap.Int("rows", len(rows)),
		zap.Int("unmatched_links", jstats.Links.Unmatched),
		zap.Int("unmatched_web", jstats.Web.Unmatched),
		zap.Float64("price_mean", prices.Mean),
		zap.Float64("price_stddev", prices.StdDev),
	)

	// ===== Quality gate =====
	res.Gate = gate.Evaluate(rows, gate.Expectations{
		Rows:      cfg.Quality.ExpectedRows,
		Revenue:   cfg.Quality.ExpectedRevenue,
		Tolerance: cfg.Quality.RevenueTolerance,
	})
	for _, c := range res.Gate.Checks {
		res.Summary.Checks = append(res.Summary.Checks, c.Outcome())
		fields := []zap.Field{
			zap.String("check", c.Name),
			zap.String("computed", c.Computed.String()),
			zap.String("expected", c.Expected.String()),
			zap.String("delta", c.Delta.String()),
		}
		if c.Passed {
			log.Info("pipeline: quality check passed", fields...)
		} else {
			log.Error("pipeline: quality check failed", fields...)
		}
	}
	if gateErr := res.Gate.Err(); gateErr != nil {
		res.Status = model.RunStatusHalted
		res.Summary.Error = gateErr.Error()
		log.Error("pipeline: halted by quality gate, no reports written")
		p.finish(ctx, log, res)
		return res, gateErr
	}

	// ===== Audit =====
	res.Audit = audit.Run(audit.Input{
		Inventory:  src.inventory,
		Web:        products,
		Links:      links,
		Reconciled: rows,
	}, audit.Options{Threshold: cfg.Pipeline.OutlierThreshold, Mode: mode})
	res.Summary.Warnings = res.Audit.Warnings()
	for _, w := range res.Summary.Warnings {
		log.Warn("pipeline: integrity warning",
			zap.String("finding", w.Name),
			zap.Int("count", w.Count),
			zap.Strings("keys", w.Keys),
			zap.String("message", w.Message),
		)
	}
	preview := res.Audit.Outliers.Preview(cfg.Pipeline.OutlierPreview)
	for _, o := range preview {
		log.Warn("pipeline: price outlier",
			zap.Int64p("product_id", o.Record.ProductID),
			zap.String("post_title", o.Record.PostTitle),
			zap.Float64p("price", o.Record.Price),
			zap.Float64("zscore", o.ZScore),
		)
	}

	// ===== Remediation =====
	catalogue := remediate.DedupeWeb(products)
	migratable, rsum := remediate.Apply(rows, remediate.PlanFrom(res.Audit))
	res.Catalogue = catalogue
	res.Migratable = migratable
	res.Remediation = rsum
	res.Summary.Counts.Migratable = len(migratable)
	log.Info("pipeline: remediation applied",
		zap.Int("web_duplicates_dropped", len(products)-len(catalogue)),
		zap.Int("orphans_dropped", rsum.Orphans),
		zap.Int("missing_web_dropped", rsum.MissingWeb),
		zap.Int("duplicate_web_dropped", rsum.DuplicateWeb),
		zap.Int("migratable", len(migratable)),
	)

	res.Readiness = CheckReadiness(migratable, catalogue, res.Audit.Orphans.WebIDs)
	res.Summary.Ready = len(res.Readiness) == 0
	if res.Summary.Ready {
		log.Info("pipeline: migratable set ready", zap.Int("rows", len(migratable)))
	} else {
		log.Warn("pipeline: migratable set not ready", zap.Strings("problems", res.Readiness))
	}

	// ===== Reports =====
	tables := report.Build(report.Input{
		Reconciled:       rows,
		Migratable:       migratable,
		Inventory:        src.inventory,
		Links:            links,
		PremiumThreshold: cfg.Pipeline.PremiumThreshold,
	})
	for _, t := range tables {
		switch t.Name {
		case report.PremiumWines:
			res.Summary.Counts.Premium = t.Len()
		case report.UnlinkedInventory:
			res.Summary.Counts.Unlinked = t.Len()
		}
	}

	doc := summaryDoc{
		RunID:          res.RunID,
		RunSummary:     res.Summary,
		Join:           res.Join,
		Prices:         res.Prices,
		OutlierPreview: preview,
		Remediation:    rsum,
		Readiness:      res.Readiness,
		GeneratedAt:    time.Now().UTC(),
	}
	w := &report.Writer{Dir: cfg.Report.OutputDir, Formats: cfg.Report.Formats}
	paths, err := w.Write(ctx, tables, doc)
	if err != nil {
		return fail(eris.Wrap(err, "pipeline: write reports"))
	}
	res.Reports = paths

	res.Status = model.RunStatusSucceeded
	p.finish(ctx, log, res)
	log.Info("pipeline: reconciliation complete",
		zap.Int("reconciled", len(rows)),
		zap.Int("migratable", len(migratable)),
		zap.Int("reports", len(paths)),
	)
	return res, nil
}

func (p *Pipeline) load(ctx context.Context) (*sources, error) {
	opts := source.CSVOptions{
		Delimiter: p.cfg.Sources.DelimiterRune(),
		Encoding:  p.cfg.Sources.Encoding,
	}

	inv, err := source.Load(ctx, source.File{Name: source.Inventory, Path: p.cfg.Sources.Inventory, Required: source.InventoryColumns}, opts)
	if err != nil {
		return nil, err
	}
	web, err := source.Load(ctx, source.File{Name: source.Web, Path: p.cfg.Sources.Web, Required: source.WebColumns}, opts)
	if err != nil {
		return nil, err
	}
	links, err := source.Load(ctx, source.File{Name: source.Links, Path: p.cfg.Sources.Links, Required: source.LinkColumns}, opts)
	if err != nil {
		return nil, err
	}

	return &sources{
		inventory: normalize.Inventory(normalize.Table(inv, normalize.InventorySchema)),
		web:       normalize.Web(normalize.Table(web, normalize.WebSchema)),
		links:     normalize.Links(normalize.Table(links, normalize.LinkSchema)),
	}, nil
}

// finish records the outcome in the run store. Store failures are logged,
// never returned.
func (p *Pipeline) finish(ctx context.Context, log *zap.Logger, res *Result) {
	if p.store == nil || res.RunID == "" {
		return
	}
	summary := res.Summary
	if err := p.store.FinishRun(ctx, res.RunID, res.Status, &summary); err != nil {
		log.Warn("pipeline: failed to record run", zap.Error(err))
	}
}
