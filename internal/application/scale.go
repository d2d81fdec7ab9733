package app

import (
	"fmt"

	"sketch2cad/internal/domain/entity"
)

// PipelineConfig описывает один прогон конвейера: вход, выход и параметры.
type PipelineConfig struct {
	InputPath string
	OutputDXF string

	Preprocess entity.PreprocessParams

	// Калибровка масштаба: явный MMPerPx имеет приоритет,
	// иначе считается RefMM/RefPx. Ноль означает «не задано».
	RefMM   float64
	RefPx   float64
	MMPerPx float64

	UseCleanFilter bool // чистка мелких областей перед сегментацией

	DebugDump bool   // дампить промежуточные маски
	DebugDir  string // каталог отладочных артефактов
}

// DefaultPipelineConfig возвращает конфигурацию с параметрами по умолчанию.
func DefaultPipelineConfig(inputPath, outputDXF string) PipelineConfig {
	return PipelineConfig{
		InputPath:      inputPath,
		OutputDXF:      outputDXF,
		Preprocess:     entity.DefaultPreprocessParams(),
		UseCleanFilter: true,
		DebugDir:       "./examples/output/_debug",
	}
}

// MMPerPixel вычисляет масштаб мм/пиксель по калибровке.
// Отсутствие опорных значений или неположительное значение — ошибка
// калибровки: без масштаба чертёж бессмысленен.
func MMPerPixel(cfg PipelineConfig) (float64, error) {
	if cfg.MMPerPx != 0 {
		if cfg.MMPerPx < 0 {
			return 0, fmt.Errorf("%w: mm_per_px must be > 0, got %g", entity.ErrCalibration, cfg.MMPerPx)
		}
		return cfg.MMPerPx, nil
	}

	if cfg.RefMM == 0 || cfg.RefPx == 0 {
		return 0, fmt.Errorf("%w: provide ref_mm and ref_px, or mm_per_px", entity.ErrCalibration)
	}
	if cfg.RefMM < 0 || cfg.RefPx < 0 {
		return 0, fmt.Errorf("%w: ref_mm and ref_px must be > 0", entity.ErrCalibration)
	}
	return cfg.RefMM / cfg.RefPx, nil
}
