package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sketch2cad",
	Short: "Векторизация эскизов в DXF",
	Long: `sketch2cad превращает фото или скан эскиза в чертёж DXF:
бинаризация, разделение контуров и отверстий, трассировка potrace,
экспорт в миллиметрах по опорному размеру.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(runCmd, watchCmd, metricsCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
