package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bimqr/internal"
	"bimqr/internal/config"
	"bimqr/internal/labels"
	"bimqr/internal/site"
)

var (
	ErrNoProject  = errors.New("project name is required")
	ErrNoElements = errors.New("no valid elements found; check the file has data and the required columns: IfcGUID, Name, Marca, Disciplina")
)

type GenerationService struct {
	cfg    config.Config
	logger *zap.Logger
	site   *site.Renderer
	labels *labels.Generator
}

func NewGenerationService(cfg config.Config, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		cfg:    cfg,
		logger: logger,
		site:   site.NewRenderer(cfg),
		labels: labels.NewGenerator(cfg),
	}
}

type RunOptions struct {
	InputPath     string
	Project       string
	Discipline    string
	SkipSite      bool
	SkipPDF       bool
	InventoryPath string
}

type RunResult struct {
	RunID      string
	Report     internal.ExtractReport
	Duplicates []string
	Elements   []internal.Element
	Counts     []internal.DisciplineCount

	Site          *site.Result
	PDFPath       string
	InventoryPath string
	HostingConfig string
	Elapsed       time.Duration
}

func (s *GenerationService) Run(opts RunOptions) (RunResult, error) {
	start := time.Now()
	res := RunResult{RunID: uuid.NewString()}
	log := s.logger.With(zap.String("run", res.RunID))

	project := strings.TrimSpace(opts.Project)
	if project == "" {
		return res, ErrNoProject
	}
	discipline := strings.TrimSpace(opts.Discipline)

	log.Info("reading input", zap.String("path", opts.InputPath))
	elements, report, err := ExtractElements(opts.InputPath, discipline)
	res.Report = report
	if err != nil {
		return res, err
	}
	logReport(log, report)
	if len(elements) == 0 {
		return res, ErrNoElements
	}

	elements, res.Duplicates = DeduplicateElements(elements)
	ReportDuplicates(log, res.Duplicates)

	if discipline != "" && report.Source != internal.InputIFC {
		before := len(elements)
		elements, err = FilterByDiscipline(elements, discipline)
		if err != nil {
			return res, err
		}
		log.Info("filtered by discipline",
			zap.String("discipline", discipline),
			zap.Int("before", before),
			zap.Int("after", len(elements)),
		)
	}
	res.Elements = elements
	res.Counts = DisciplineCounts(elements)

	if !opts.SkipSite {
		siteRes, err := s.site.Generate(elements, project)
		if err != nil {
			return res, fmt.Errorf("generate site: %w", err)
		}
		res.Site = &siteRes
		log.Info("site written", zap.String("dir", siteRes.Dir), zap.Int("pages", siteRes.Pages))
	}

	if !opts.SkipPDF {
		path, err := s.labels.Generate(elements, project, discipline)
		if err != nil {
			return res, err
		}
		res.PDFPath = path
		log.Info("label sheet written", zap.String("path", path))
	}

	if opts.InventoryPath != "" {
		if err := ExportElementsToXLSX(elements, s.cfg.BaseURL, opts.InventoryPath); err != nil {
			return res, fmt.Errorf("export inventory: %w", err)
		}
		res.InventoryPath = opts.InventoryPath
		log.Info("inventory written", zap.String("path", opts.InventoryPath))
	}

	if err := site.WriteHostingConfig(s.cfg.HostingConfigPath, s.cfg.SiteDir); err != nil {
		return res, fmt.Errorf("write hosting config: %w", err)
	}
	res.HostingConfig = s.cfg.HostingConfigPath

	res.Elapsed = time.Since(start)
	return res, nil
}

func logReport(log *zap.Logger, r internal.ExtractReport) {
	switch r.Source {
	case internal.InputIFC:
		log.Info(fmt.Sprintf("ifc: %d elements extracted (%d without tag, %d with invalid tag)",
			r.Extracted, r.SkippedNoTag, r.SkippedBadTag))
	default:
		log.Info(fmt.Sprintf("table: %d elements read (%d dropped for empty/invalid tag)",
			r.Extracted, r.SkippedBadTag))
		if r.SkippedNoID > 0 {
			log.Warn("rows without IfcGUID skipped", zap.Int("count", r.SkippedNoID))
		}
	}
}
