// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"bytes"
	"fmt"
	"text/template"
)

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var extractTmpl = template.Must(template.New("extract").Parse(`You are analyzing the text of a machine learning research paper.

Your goal is to extract structured, high-level information that helps a researcher
quickly decide whether this paper is relevant to their work.

Do NOT speculate. Only extract what is clearly stated or strongly implied.
If information is missing, use null for a text field and an empty list for a list field.

Extract the following fields:

- title: paper title
- problem_statement: What real-world or technical problem is being addressed (2-4 sentences)
- task_type: e.g. Classification, Regression, Segmentation, Detection, Generation, Forecasting, Reinforcement Learning, Representation Learning, Object Detection
- core_contribution: the main idea or novelty of the paper (2-4 sentences)
- model_architecture: high-level model description the paper uses (no layer-by-layer detail). Paper may use multiple models or just one. (2-5 sentences)
- training_details: key training setup if mentioned (loss functions, optimizers, supervision type, pretraining). Omit details that aren't present. (2-5 sentences)
- datasets: List of dataset names explicitly mentioned. Give explicit names if possible. If and only if you can find it give the full name of the dataset in parentheses after the dataset acronym if applicable (e.g. IDRiD (Indian Diabetic Retinopathy Image Dataset))
- evaluation_metrics: list of metrics used. Spell out long acronyms (e.g. F1/Dice, IoU (Intersection over Union), Accuracy, Precision, Recall, PR-AUC, ROC-AUC, MSE (Mean Squared Error))
- baselines: Models or methods explicitly compared against in experiments. Only include baselines named in the paper.
- key_results: key quantitative results or improvements if explicitly stated (2-4 sentences). If no clear numerical improvements are stated, respond with "Not explicitly stated."
- limitations: Limitations or failure cases explicitly mentioned by the authors (2-4 sentences). If none are stated, respond with "Not discussed by the authors."
- application_domains: application areas (e.g. Healthcare & Medical Imaging, NLP, Robotics, Autonomous Driving, Finance & Economics, Biology & Genomics, Industrial, Climate)

Rules:
- Be concise.
- datasets, evaluation_metrics, baselines, application_domains must be lists.
- Output MUST be valid JSON only.
- No markdown, no explanation text.

JSON format:
{
"title": string | null,
"problem_statement": string | null,
"task_type": string | null,
"core_contribution": string | null,
"model_architecture": string | null,
"training_details": string | null,
"datasets": list[string],
"evaluation_metrics": list[string],
"baselines": list[string],
"key_results": string | null,
"limitations": string | null,
"application_domains": list[string]
}

Paper text:
{{.Text}}
`))

var selectTmpl = template.Must(template.New("select").Parse(`You are a research paper relevance judge.
A user is searching for: "{{.Query}}"
Below are {{len .Candidates}} text chunks from a research paper, each labeled with an index.
{{range $i, $c := .Candidates}}[{{$i}}] {{$c}}
{{end}}
Pick the {{.K}} chunks that are most relevant to the user's query.
Return ONLY a JSON array of their indices. No ranking needed, just the {{.K}} best.
Output ONLY the JSON array, nothing else.`))

var relevanceTmpl = template.Must(template.New("relevance").Parse(`You are a research relevance judge.
A researcher is looking for: "{{.Query}}"
Here is a paper's abstract:
"{{.Abstract}}"
Rate how relevant this paper is to the researcher's interest on a scale of 0 to 100.
0   = Completely unrelated topic or domain.
25  = Same general field (e.g. ML) but no shared task, methods, or application.
50  = Shares either task OR application domain, but not both. Limited practical usefulness.
75  = Shares task or methodology AND application domain. Likely useful background or baseline.
100 = Direct match in task, methodology, and application domain. Highly likely to influence the research.
Consider topical overlap, methodology relevance, and practical usefulness.
Do not consider writing quality or paper importance. Judge relevance only.
Return ONLY a single integer between 0 and 100. Nothing else.
`))

var expandTmpl = template.Must(template.New("expand").Parse(`You are a search query expansion assistant for academic research papers.
Given the user's research query, expand it by adding related technical synonyms,
alternative phrasings, and task clarifications. Do NOT change the user's intent.
Rules:
- Add relevant technical terms, acronyms, and synonyms that a paper might use.
- Do not add unrelated topics.
- Return ONLY the expanded query text, nothing else.
User query: "{{.Query}}"
Expanded query:`))

var keywordsTmpl = template.Must(template.New("keywords").Parse(`You are a keyword extraction assistant for academic paper search.
Given the user's research query, extract the 3-5 most important search keywords
or short phrases that would find relevant papers on arXiv.
Rules:
- Focus on technical terms, methods, and domain-specific vocabulary.
- Return ONLY the keywords separated by spaces, nothing else.
- Do not include filler words like "using", "for", "with", etc.
User query: "{{.Query}}"
Keywords:`))

var answerTmpl = template.Must(template.New("answer").Funcs(funcs).Parse(`You are a research paper assistant. A user is asking a question about a specific paper.
Answer the user's question using ONLY the provided paper excerpts below.
If the excerpts don't contain enough information to answer, say so honestly.
Be concise, specific, and cite which excerpt(s) your answer draws from when relevant.
User question: "{{.Query}}"
Paper excerpts:
{{range $i, $e := .Excerpts}}
[Excerpt {{inc $i}}]
{{$e}}
{{end}}
Answer:`))

var denoiseTmpl = template.Must(template.New("denoise").Parse(`You are performing strict text cleanup on raw PDF-extracted research text.
You will receive {{len .Texts}} numbered chunks.
Your task is PURELY DELETION-BASED CLEANING.
For each chunk:
- Keep original sentences EXACTLY as written.
- Preserve original sentence order.
- Remove only:
  - Figure or table captions
  - Inline citation markers like [1], (Smith et al., 2020)
  - Page numbers or headers/footers
  - Raw equations or equation fragments
  - Isolated numeric/table fragments
  - Author affiliations or metadata
  - Broken sentence fragments
Rules:
- Do NOT summarize.
- Do NOT paraphrase.
- Do NOT rewrite sentences.
- Do NOT merge sentences.
- Do NOT add new text.
- If a chunk contains no meaningful prose, return an empty string.

Return a JSON array of length {{len .Texts}}.
Each element must correspond to the cleaned version of the same index.
Output ONLY the JSON array.

Here are the chunks:
{{range $i, $t := .Texts}}
[{{$i}}]
{{$t}}
{{end}}`))

// render executes tmpl with data.
func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
