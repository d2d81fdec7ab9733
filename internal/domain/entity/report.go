package entity

// Статусы прогона конвейера.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Report — итог одного прогона. Сериализуется в JSON рядом с DXF-файлом.
type Report struct {
	Status    string   `json:"status"`
	RunID     string   `json:"run_id"`
	InputPath string   `json:"input_path"`
	OutputDXF string   `json:"output_dxf"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	MMPerPx   float64  `json:"mm_per_px"`
	NumPaths  int      `json:"num_paths"`
	Errors    []string `json:"errors"`
}

// PreprocessParams — параметры бинаризации исходного изображения.
type PreprocessParams struct {
	BlurKsize   int // размер ядра гауссова размытия, нечётный
	BlockSize   int // окно адаптивного порога, нечётное
	AdaptiveC   int // константа адаптивного порога
	MorphKernel int // ядро морфологического закрытия
	MorphIters  int // число итераций закрытия, 0 отключает
}

// DefaultPreprocessParams возвращает параметры по умолчанию.
func DefaultPreprocessParams() PreprocessParams {
	return PreprocessParams{
		BlurKsize:   5,
		BlockSize:   41,
		AdaptiveC:   7,
		MorphKernel: 3,
		MorphIters:  1,
	}
}
