package engine

import (
	"fmt"
	"strings"

	"resumatch/internal/errors"
)

// Category groups canonical skills under a taxonomy category name
type Category struct {
	Name   string   `json:"name" mapstructure:"name"`
	Skills []string `json:"skills" mapstructure:"skills"`
}

// Taxonomy is the process-wide, read-only skill vocabulary. It is loaded and
// validated once at startup and injected into the engine; it is never mutated
// afterwards, so concurrent analyses can share it without locking.
type Taxonomy struct {
	Categories []Category        `json:"categories" mapstructure:"categories"`
	Aliases    map[string]string `json:"aliases" mapstructure:"aliases"`
}

// Validate checks structural integrity: non-empty categories, no duplicate
// skills, and alias targets that resolve to known canonical skills.
func (t *Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
			"taxonomy has no categories", nil)
	}

	known := make(map[string]string, 200)
	for _, cat := range t.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				"taxonomy category with empty name", nil)
		}
		if len(cat.Skills) == 0 {
			return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("taxonomy category %q has no skills", cat.Name), nil)
		}
		for _, skill := range cat.Skills {
			normalized := strings.ToLower(strings.TrimSpace(skill))
			if normalized == "" {
				return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
					fmt.Sprintf("taxonomy category %q contains an empty skill", cat.Name), nil)
			}
			if prev, dup := known[normalized]; dup {
				return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
					fmt.Sprintf("skill %q appears in both %q and %q", normalized, prev, cat.Name), nil)
			}
			known[normalized] = cat.Name
		}
	}

	for alias, canonical := range t.Aliases {
		if strings.TrimSpace(alias) == "" {
			return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				"taxonomy alias with empty name", nil)
		}
		if _, ok := known[strings.ToLower(canonical)]; !ok {
			return errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("alias %q points to unknown skill %q", alias, canonical), nil)
		}
	}

	return nil
}

// SkillCount returns the number of canonical skills across all categories
func (t *Taxonomy) SkillCount() int {
	count := 0
	for _, cat := range t.Categories {
		count += len(cat.Skills)
	}
	return count
}

// DefaultTaxonomy returns the built-in skill vocabulary: 160+ canonical
// skills across eight categories, with a small alias table for common
// alternate spellings.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Categories: []Category{
			{
				Name: "languages",
				Skills: []string{
					"python", "java", "javascript", "typescript", "c++", "c#", "c",
					"ruby", "php", "swift", "kotlin", "go", "rust", "scala", "r",
					"matlab", "perl", "shell", "bash", "powershell", "dart", "lua",
					"elixir", "haskell",
				},
			},
			{
				Name: "frontend",
				Skills: []string{
					"html", "css", "react", "vue", "angular", "nextjs", "nuxtjs",
					"svelte", "jquery", "bootstrap", "tailwind", "sass", "webpack",
					"vite", "rollup", "graphql", "redux", "storybook", "astro",
				},
			},
			{
				Name: "backend",
				Skills: []string{
					"flask", "django", "fastapi", "express", "node.js", "spring",
					"spring boot", "laravel", "rails", "asp.net", "nestjs", "gin",
					"fiber", "echo", "grpc", "phoenix", "symfony", "celery",
				},
			},
			{
				Name: "databases",
				Skills: []string{
					"sql", "mysql", "postgresql", "mongodb", "redis", "sqlite",
					"oracle", "cassandra", "dynamodb", "elasticsearch", "neo4j",
					"mariadb", "firebase", "couchdb", "clickhouse", "snowflake",
					"bigquery", "influxdb",
				},
			},
			{
				Name: "cloud",
				Skills: []string{
					"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
					"ansible", "jenkins", "github actions", "circleci", "gitlab ci",
					"linux", "nginx", "apache", "helm", "prometheus", "grafana",
					"datadog", "vault", "consul", "cloudformation", "pulumi",
					"argocd", "istio",
				},
			},
			{
				Name: "data",
				Skills: []string{
					"machine learning", "deep learning", "nlp", "computer vision",
					"tensorflow", "pytorch", "keras", "scikit-learn", "pandas",
					"numpy", "matplotlib", "seaborn", "spark", "hadoop", "kafka",
					"tableau", "power bi", "data analysis", "data science",
					"statistics", "regression", "classification", "neural network",
					"airflow", "dbt", "mlflow",
				},
			},
			{
				Name: "tools",
				Skills: []string{
					"git", "github", "gitlab", "bitbucket", "jira", "confluence",
					"agile", "scrum", "kanban", "ci/cd", "rest api", "microservices",
					"unit testing", "integration testing", "tdd", "pytest", "jest",
					"selenium", "cypress", "postman", "figma", "vim",
				},
			},
			{
				Name: "soft skills",
				Skills: []string{
					"leadership", "communication", "teamwork", "problem solving",
					"critical thinking", "time management", "adaptability",
					"project management", "collaboration", "presentation",
					"mentoring", "stakeholder management",
				},
			},
		},
		Aliases: map[string]string{
			"golang":         "go",
			"k8s":            "kubernetes",
			"postgres":       "postgresql",
			"psql":           "postgresql",
			"mongo":          "mongodb",
			"reactjs":        "react",
			"react.js":       "react",
			"vuejs":          "vue",
			"vue.js":         "vue",
			"angularjs":      "angular",
			"next.js":        "nextjs",
			"nuxt.js":        "nuxtjs",
			"nodejs":         "node.js",
			"node":           "node.js",
			"expressjs":      "express",
			"sklearn":        "scikit-learn",
			"google cloud":   "gcp",
			"scss":           "sass",
			"tailwindcss":    "tailwind",
			"springboot":     "spring boot",
			"restful api":    "rest api",
			"rest apis":      "rest api",
			"microservice":   "microservices",
			"ci-cd":          "ci/cd",
			"elastic search": "elasticsearch",
		},
	}
}
