package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/battsim/core/battery"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Print the model parameters fitted from the battery configuration",
	Args:  cobra.NoArgs,
	RunE:  runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
}

// fitReport collects what the model builders log while fitting.
type fitReport struct {
	Fits     map[string]map[string]any `yaml:"fits"`
	Warnings []string                  `yaml:"warnings,omitempty"`
	Bank     map[string]any            `yaml:"bank"`
}

func (r *fitReport) Debugf(string, ...any) {}
func (r *fitReport) Debugw(msg string, fields map[string]any) {
	r.Fits[msg] = fields
}
func (r *fitReport) Infof(string, ...any) {}
func (r *fitReport) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
func (r *fitReport) Errorf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	report := &fitReport{Fits: map[string]map[string]any{}}
	bank, err := battery.NewBankFromConfig(cfg.Battery, report)
	if err != nil {
		return err
	}
	b := bank.Battery()
	report.Bank = map[string]any{
		"chemistry":       string(cfg.Battery.Chemistry),
		"units":           bank.Units(),
		"voltage":         bank.Voltage(),
		"cell_voltage":    b.CellVoltage(),
		"charge_ah":       b.CurrentCharge(),
		"qmax_ah":         b.Capacity().Qmax(),
		"room_temp_k":     b.Thermal().RoomTemperature(),
		"surface_area_m2": b.Thermal().SurfaceArea(),
	}
	out, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
