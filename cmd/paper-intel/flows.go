// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// --- extract ---

var extractCmd = &cobra.Command{
	Use:   "extract <arxiv-id-or-url>",
	Short: "Extract the key facts of a paper",
	Long: `Extract downloads the paper, converts it to text and asks the oracle for a
structured overview: problem, task, contribution, architecture, training,
datasets, metrics, baselines, results, limitations and domains.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.service.ExtractInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), outputFormat(cmd), out, func(w io.Writer) error {
			return printExtraction(w, out)
		})
	},
}

func printExtraction(w io.Writer, e types.PaperExtraction) error {
	field := func(label string, v *string) {
		val := "(not stated)"
		if v != nil {
			val = *v
		}
		fmt.Fprintf(w, "%-20s %s\n", label+":", val)
	}
	list := func(label string, v []string) {
		val := "(none)"
		if len(v) > 0 {
			val = strings.Join(v, ", ")
		}
		fmt.Fprintf(w, "%-20s %s\n", label+":", val)
	}
	field("Title", e.Title)
	field("Problem", e.ProblemStatement)
	field("Task", e.TaskType)
	field("Contribution", e.CoreContribution)
	field("Architecture", e.ModelArchitecture)
	field("Training", e.TrainingDetails)
	list("Datasets", e.Datasets)
	list("Metrics", e.EvaluationMetrics)
	list("Baselines", e.Baselines)
	field("Key results", e.KeyResults)
	field("Limitations", e.Limitations)
	list("Domains", e.ApplicationDomains)
	return nil
}

// --- score ---

var scoreCmd = &cobra.Command{
	Use:   "score <arxiv-id-or-url> --query <text>",
	Short: "Score a paper's relevance to a research interest",
	Long: `Score rates the whole paper on 0-100 against the query and lists its
most relevant passages, selected by a cosine prefilter and an oracle
rerank, then de-noised.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlow(func(ctx context.Context, a *app, ref, query string) (any, func(io.Writer) error, error) {
		out, err := a.service.ScorePaper(ctx, ref, query)
		return out, func(w io.Writer) error { return printSimilarity(w, out) }, err
	}),
}

func printSimilarity(w io.Writer, r types.SimilarityResult) error {
	fmt.Fprintf(w, "Abstract score: %.3f / 100\n\n", r.AbstractScore)
	if len(r.TopChunks) == 0 {
		fmt.Fprintln(w, "No passages found.")
		return nil
	}
	printChunks(w, r.TopChunks)
	return nil
}

func printChunks(w io.Writer, chunks []types.ScoredChunk) {
	fmt.Fprintf(w, "%-4s  %-6s  %-5s  %s\n", "Rank", "Score", "Chunk", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, c := range chunks {
		fmt.Fprintf(w, "%-4d  %-6.3f  %-5d  %s\n", i+1, c.Score, c.Index, clip(c.Text, 78))
	}
}

// --- related ---

var relatedCmd = &cobra.Command{
	Use:   "related <arxiv-id-or-url> --query <text>",
	Short: "Find papers related to a research interest",
	Long: `Related searches arXiv with keywords drawn from the query, drops the input
paper and ranks the rest by abstract similarity to the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlow(func(ctx context.Context, a *app, ref, query string) (any, func(io.Writer) error, error) {
		out, err := a.service.FindRelated(ctx, ref, query)
		return out, func(w io.Writer) error { return printRelated(w, out) }, err
	}),
}

func printRelated(w io.Writer, r types.RelatedPapersResult) error {
	if len(r.Papers) == 0 {
		fmt.Fprintln(w, "No related papers found.")
		return nil
	}
	fmt.Fprintf(w, "%-4s  %-6s  %-12s  %-50s  %s\n", "Rank", "Score", "arXiv ID", "Title", "Authors")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, p := range r.Papers {
		fmt.Fprintf(w, "%-4d  %-6.3f  %-12s  %-50s  %s\n",
			i+1, p.Score, p.Identifier, clip(p.Title, 50), clip(strings.Join(p.Authors, ", "), 30))
	}
	fmt.Fprintf(w, "\n%d papers\n", len(r.Papers))
	return nil
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat <arxiv-id-or-url> --query <question>",
	Short: "Ask a question about a paper",
	Long: `Chat answers the question from the paper's passages most similar to it and
lists the passages used.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlow(func(ctx context.Context, a *app, ref, query string) (any, func(io.Writer) error, error) {
		out, err := a.service.Chat(ctx, ref, query)
		return out, func(w io.Writer) error { return printChat(w, out) }, err
	}),
}

func printChat(w io.Writer, r types.ChatResponse) error {
	fmt.Fprintln(w, r.Answer)
	if len(r.ChunksUsed) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nSources (%d passages):\n", len(r.ChunksUsed))
	printChunks(w, r.ChunksUsed)
	return nil
}

// --- shared ---

type flowFunc func(ctx context.Context, a *app, ref, query string) (any, func(io.Writer) error, error)

// runFlow adapts a query flow to a cobra RunE: it requires --query, wires
// the app and writes the result in the selected format.
func runFlow(fn flowFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("--query is required")
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out, text, err := fn(cmd.Context(), a, args[0], query)
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), outputFormat(cmd), out, text)
	}
}

func init() {
	for _, c := range []*cobra.Command{scoreCmd, relatedCmd, chatCmd} {
		c.Flags().String("query", "", "research interest or question")
	}
	rootCmd.AddCommand(extractCmd, scoreCmd, relatedCmd, chatCmd)
}
