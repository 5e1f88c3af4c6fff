// Command votematch scores a YAML answer file against a catalog and
// prints the ranked candidate report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/acampos/votematch/infrastructure/display"
	"github.com/acampos/votematch/infrastructure/strategies"
	"github.com/acampos/votematch/internal/application"
	"github.com/acampos/votematch/internal/domain"
)

func main() {
	var (
		catalogPath  = flag.String("catalog", "", "Path to the YAML catalog document")
		answersPath  = flag.String("answers", "", "Path to the YAML answers file (question id -> option key)")
		strategyType = flag.String("strategy", strategies.TypeLikertDistance,
			fmt.Sprintf("Scoring strategy: %s or %s", strategies.TypeLikertDistance, strategies.TypeEvidenceTag))
		top = flag.Int("top", 0, "Number of ranked candidates to report (0 = strategy default)")
	)
	flag.Parse()

	if *catalogPath == "" || *answersPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	loader, err := application.NewCatalogLoader()
	if err != nil {
		log.Fatalf("Failed to initialize catalog loader: %v", err)
	}
	catalog, err := loader.LoadFromFile(ctx, *catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	answers, err := readAnswers(*answersPath)
	if err != nil {
		log.Fatalf("Failed to load answers: %v", err)
	}

	displayConfig, err := display.NewConfig(display.DefaultParams())
	if err != nil {
		log.Fatalf("Failed to build display config: %v", err)
	}

	config := map[string]any{}
	if *top > 0 {
		config["top_n"] = *top
	}

	registry := application.NewDefaultStrategyRegistry(displayConfig)
	strategy, err := registry.CreateStrategy(*strategyType, *strategyType, config)
	if err != nil {
		log.Fatalf("Failed to create strategy: %v", err)
	}

	engine, err := application.NewEngine(catalog, strategy)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	report, err := engine.Match(ctx, answers)
	if err != nil {
		log.Fatalf("Scoring failed: %v", err)
	}

	printReport(report, *top)
}

// readAnswers parses a YAML answer file mapping question ids to option
// keys.
func readAnswers(path string) (domain.AnswerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}

	answers := make(domain.AnswerSet, len(raw))
	for id, key := range raw {
		answers[id] = domain.OptionKey(key)
	}
	return answers, nil
}

// printReport writes the ranked results to stdout.
func printReport(report *domain.MatchReport, top int) {
	results := domain.TopN(report.Results, top)

	fmt.Printf("Strategy: %s\n", report.Strategy)
	fmt.Printf("Versions: questionnaire %s, dataset %s, scoring %s\n",
		report.Versions.Questionnaire, report.Versions.Dataset, report.Versions.Scoring)
	fmt.Printf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))

	for i, r := range results {
		fmt.Printf("%d. %s", i+1, r.Name)
		if r.Party != "" {
			fmt.Printf(" (%s)", r.Party)
		}
		fmt.Printf(" %.2f%%\n", r.ScoreTotal)

		sections := make([]string, 0, len(r.SectionScores))
		for section := range r.SectionScores {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		for _, section := range sections {
			fmt.Printf("   %s: %.2f\n", section, r.SectionScores[section])
		}
		for _, reason := range r.Reasons {
			fmt.Printf("   [%s] %s\n", reason.Category, reason.Summary)
		}
		for _, line := range r.Explanations {
			fmt.Printf("   %s\n", line)
		}
		fmt.Println()
	}
}
