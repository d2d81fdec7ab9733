package app

import (
	"context"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"sketch2cad/internal/domain/entity"
	"sketch2cad/internal/domain/port"
)

// PipelineService выполняет полный прогон: эскиз -> маски -> векторы -> DXF.
// Стадии идут строго последовательно, каждая владеет своим результатом
// до передачи следующей.
type PipelineService struct {
	pre      port.Preprocessor
	seg      port.Segmenter
	tracer   port.Tracer
	exporter port.Exporter
}

// NewPipelineService связывает стадии конвейера.
func NewPipelineService(pre port.Preprocessor, seg port.Segmenter, tracer port.Tracer, exporter port.Exporter) *PipelineService {
	return &PipelineService{pre: pre, seg: seg, tracer: tracer, exporter: exporter}
}

// Run выполняет прогон и пишет JSON-отчёт рядом с DXF-файлом.
// Ошибки стадий собираются в отчёт, сам Run не паникует.
func (s *PipelineService) Run(ctx context.Context, cfg PipelineConfig) entity.Report {
	rep := entity.Report{
		Status:    entity.StatusError,
		RunID:     uuid.NewString(),
		InputPath: cfg.InputPath,
		OutputDXF: cfg.OutputDXF,
		Errors:    []string{},
	}

	if err := s.run(ctx, cfg, &rep); err != nil {
		rep.Errors = append(rep.Errors, err.Error())
	} else {
		rep.Status = entity.StatusOK
	}

	if err := writeReport(cfg.OutputDXF, rep); err != nil {
		log.Printf("write report: %v", err)
	}
	return rep
}

func (s *PipelineService) run(ctx context.Context, cfg PipelineConfig, rep *entity.Report) error {
	bin, gray, err := s.pre.LoadBinary(cfg.InputPath, cfg.Preprocess)
	if err != nil {
		return err
	}
	rep.Width = bin.Width
	rep.Height = bin.Height

	// Калибровка проверяется до дорогой трассировки.
	scale, err := MMPerPixel(cfg)
	if err != nil {
		return err
	}

	if cfg.UseCleanFilter {
		bin, err = s.seg.Clean(bin)
		if err != nil {
			return err
		}
	}

	outer, holes, err := s.seg.SplitOuterHoles(bin, gray)
	if err != nil {
		return err
	}

	if cfg.DebugDump {
		s.dumpMasks(cfg.DebugDir, bin, outer, holes)
	}

	paths, err := s.tracer.Trace(ctx, outer)
	if err != nil {
		return err
	}
	for i := range paths {
		paths[i].Layer = entity.LayerOutline
	}

	if !holes.Empty() {
		holePaths, err := s.tracer.Trace(ctx, holes)
		if err != nil {
			return err
		}
		for i := range holePaths {
			holePaths[i].Layer = entity.LayerHoles
		}
		paths = append(paths, holePaths...)
	}

	if err := s.exporter.Export(paths, cfg.OutputDXF, scale); err != nil {
		return err
	}

	rep.MMPerPx = scale
	rep.NumPaths = len(paths)
	return nil
}

// dumpMasks сохраняет промежуточные маски; на результат прогона не влияет.
func (s *PipelineService) dumpMasks(dir string, bin, outer, holes entity.Mask) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("debug dir: %v", err)
		return
	}
	for name, m := range map[string]entity.Mask{
		"binary.png":     bin,
		"mask_outer.png": outer,
		"mask_holes.png": holes,
	} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			log.Printf("debug dump %s: %v", name, err)
			continue
		}
		if err := png.Encode(f, m.GrayImage()); err != nil {
			log.Printf("debug dump %s: %v", name, err)
		}
		f.Close()
	}
}
