// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperExtraction holds the structured overview of a paper produced by the
// extraction oracle. Nullable fields are nil when the paper does not state
// them; list fields are never nil after validation.
type PaperExtraction struct {
	Title              *string  `json:"title" yaml:"title"`
	ProblemStatement   *string  `json:"problem_statement" yaml:"problem_statement"`
	TaskType           *string  `json:"task_type" yaml:"task_type"`
	CoreContribution   *string  `json:"core_contribution" yaml:"core_contribution"`
	ModelArchitecture  *string  `json:"model_architecture" yaml:"model_architecture"`
	TrainingDetails    *string  `json:"training_details" yaml:"training_details"`
	Datasets           []string `json:"datasets" yaml:"datasets"`
	EvaluationMetrics  []string `json:"evaluation_metrics" yaml:"evaluation_metrics"`
	Baselines          []string `json:"baselines" yaml:"baselines"`
	KeyResults         *string  `json:"key_results" yaml:"key_results"`
	Limitations        *string  `json:"limitations" yaml:"limitations"`
	ApplicationDomains []string `json:"application_domains" yaml:"application_domains"`
}

// Normalize replaces nil list fields with empty lists.
func (e *PaperExtraction) Normalize() {
	for _, l := range []*[]string{&e.Datasets, &e.EvaluationMetrics, &e.Baselines, &e.ApplicationDomains} {
		if *l == nil {
			*l = []string{}
		}
	}
}
