package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BenchPlan describes one benchmark sweep: which models to test,
// which questions to ask, and where to write the workbook.
type BenchPlan struct {
	Models    []string `yaml:"models"`
	Questions []string `yaml:"questions"`
	Output    string   `yaml:"output"`
}

// LoadBenchPlan reads a sweep definition from a YAML file. Decoding is
// strict: unknown keys are an error, not ignored.
func LoadBenchPlan(path string) (BenchPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return BenchPlan{}, fmt.Errorf("open bench plan: %w", err)
	}
	defer f.Close()

	var plan BenchPlan
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return BenchPlan{}, fmt.Errorf("decode bench plan %s: %w", path, err)
	}

	if len(plan.Models) == 0 {
		return BenchPlan{}, fmt.Errorf("bench plan %s: at least one model is required", path)
	}
	if len(plan.Questions) == 0 {
		return BenchPlan{}, fmt.Errorf("bench plan %s: at least one question is required", path)
	}
	if plan.Output == "" {
		plan.Output = "benchmark_results.xlsx"
	}
	return plan, nil
}
