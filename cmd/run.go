package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sketch2cad/config"
	app "sketch2cad/internal/application"
	"sketch2cad/internal/container"
	"sketch2cad/internal/domain/entity"
	"sketch2cad/internal/infrastructure/dxf"
	"sketch2cad/internal/infrastructure/potrace"
	"sketch2cad/internal/infrastructure/vision"
)

var runFlags struct {
	output  string
	refMM   float64
	refPx   float64
	mmPerPx float64

	blur        int
	blockSize   int
	adaptiveC   int
	morphKernel int
	morphIters  int

	samples          int
	polyline         bool
	noContoursFilter bool

	debug    bool
	debugDir string
}

var runCmd = &cobra.Command{
	Use:   "run <sketch>",
	Short: "Обработать один эскиз и записать DXF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		pcfg := app.DefaultPipelineConfig(args[0], runFlags.output)
		if pcfg.OutputDXF == "" {
			pcfg.OutputDXF = "out.dxf"
		}
		pcfg.Preprocess = entity.PreprocessParams{
			BlurKsize:   runFlags.blur,
			BlockSize:   runFlags.blockSize,
			AdaptiveC:   runFlags.adaptiveC,
			MorphKernel: runFlags.morphKernel,
			MorphIters:  runFlags.morphIters,
		}
		pcfg.RefMM = runFlags.refMM
		pcfg.RefPx = runFlags.refPx
		pcfg.MMPerPx = runFlags.mmPerPx
		if pcfg.RefMM == 0 && pcfg.RefPx == 0 && pcfg.MMPerPx == 0 {
			pcfg.RefMM = cfg.RefMM
			pcfg.RefPx = cfg.RefPx
		}
		pcfg.UseCleanFilter = !runFlags.noContoursFilter
		pcfg.DebugDump = runFlags.debug
		if runFlags.debugDir != "" {
			pcfg.DebugDir = runFlags.debugDir
		}

		tracer := potrace.NewCLITracer(cfg.PotracePath)
		if runFlags.debug {
			tracer.DebugDir = pcfg.DebugDir
		}

		c := container.New(
			vision.NewGoCVPreprocessor(),
			vision.NewGoCVSegmenter(),
			tracer,
			dxf.NewExporter(runFlags.samples, !runFlags.polyline),
		)

		rep := c.Pipeline.Run(cmd.Context(), pcfg)
		if rep.Status != entity.StatusOK {
			return fmt.Errorf("pipeline failed: %v (report: %s)",
				rep.Errors, app.ReportPath(pcfg.OutputDXF))
		}

		fmt.Printf("DXF: %s\nмасштаб: %.4f мм/px, путей: %d\nотчёт: %s\n",
			rep.OutputDXF, rep.MMPerPx, rep.NumPaths, app.ReportPath(pcfg.OutputDXF))
		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.output, "output", "o", "out.dxf", "путь итогового DXF")
	f.Float64Var(&runFlags.refMM, "ref-mm", 0, "длина опорного отрезка, мм")
	f.Float64Var(&runFlags.refPx, "ref-px", 0, "длина опорного отрезка, px")
	f.Float64Var(&runFlags.mmPerPx, "mm-per-px", 0, "явный масштаб мм/px (перекрывает опорный отрезок)")

	f.IntVar(&runFlags.blur, "blur", 5, "ядро гауссова размытия")
	f.IntVar(&runFlags.blockSize, "block-size", 41, "окно адаптивной бинаризации")
	f.IntVar(&runFlags.adaptiveC, "adaptive-c", 7, "вычитаемая константа бинаризации")
	f.IntVar(&runFlags.morphKernel, "morph-kernel", 3, "ядро морфологического закрытия")
	f.IntVar(&runFlags.morphIters, "morph-iters", 1, "число итераций закрытия")

	f.IntVar(&runFlags.samples, "samples", 16, "шагов дискретизации кривых")
	f.BoolVar(&runFlags.polyline, "polyline", false, "писать кривые полилиниями вместо SPLINE")
	f.BoolVar(&runFlags.noContoursFilter, "no-contours-filter", false, "не отбрасывать мелкие области")

	f.BoolVar(&runFlags.debug, "debug", false, "сохранять промежуточные маски и SVG")
	f.StringVar(&runFlags.debugDir, "debug-dir", "", "каталог отладочных артефактов")
}
