package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sketch2cad/internal/infrastructure/dxf"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <drawing.dxf>",
	Short: "Посчитать сводку по готовому DXF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := dxf.ComputeMetrics(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}
