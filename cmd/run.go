package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/ai/gemini"
	"github.com/talentsift/talentsift/internal/logger"
	"github.com/talentsift/talentsift/internal/pipeline"
	"github.com/talentsift/talentsift/internal/secrets"
	"github.com/talentsift/talentsift/internal/stage2"
	"github.com/talentsift/talentsift/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Replace all existing filter outcomes for this job?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the two-stage candidate filtering for one job",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("user", "", "user id owning the job")
	runCmd.Flags().String("job", "", "job id to filter candidates for")
	runCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before replacing outcomes")
	runCmd.Flags().Bool("dry-run", false, "run both stages with a deterministic classifier stand-in and write nothing")
	runCmd.Flags().StringSlice("disable-gate", nil, "disable a stage-1 gate by name for this run (repeatable)")

	viper.BindPFlag("dry-run", runCmd.Flags().Lookup("dry-run"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	scope := store.Scope{
		UserID: strings.TrimSpace(cmd.Flag("user").Value.String()),
		JobID:  strings.TrimSpace(cmd.Flag("job").Value.String()),
	}
	if scope.UserID == "" || scope.JobID == "" {
		logger.Fatal("both --user and --job are required")
	}

	dryRun := viper.GetBool("dry-run")

	logger.Info("starting talentsift",
		zap.String("version", version),
		zap.String("job_id", scope.JobID),
		zap.Bool("dry_run", dryRun),
	)

	databaseURL, err := resolveDatabaseURL(config)
	if err != nil {
		logger.Fatal("loading database url",
			zap.Error(err),
			zap.String("hint", "set TALENTSIFT_DATABASE_URL_FILE or the database section in the configuration file"),
		)
	}

	st, err := store.Connect(ctx, databaseURL)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer st.Close()

	classifier, model, err := buildClassifier(ctx, config, logger, dryRun)
	if err != nil {
		logger.Fatal("building classifier", zap.Error(err))
	}

	if !dryRun && cmd.Flag("yes").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	disabledGates, err := cmd.Flags().GetStringSlice("disable-gate")
	if err != nil {
		logger.Fatal("reading disable-gate flag", zap.Error(err))
	}

	deps := pipeline.Deps{
		Storage:       st,
		Classifier:    classifier,
		Logger:        logger,
		DryRun:        dryRun,
		DisabledGates: disabledGates,
		Progress: func(p stage2.Progress) {
			logger.Info("stage 2 progress",
				zap.Int("processed", p.Processed),
				zap.Int("total", p.Total),
				zap.Int("wave", p.Wave),
			)
		},
	}

	if !dryRun {
		deps.Costs = st.Costs(model, scope)
	}
	if config.AI != nil && config.AI.Gemini != nil && config.AI.Gemini.BatchTimeoutSeconds > 0 {
		deps.BatchTimeout = time.Duration(config.AI.Gemini.BatchTimeoutSeconds) * time.Second
	}

	summary, err := pipeline.Run(ctx, deps, scope)
	if err != nil {
		logger.Fatal("filtering run failed", zap.Error(err))
	}

	logger.Info("done",
		zap.Int("candidates", summary.Total),
		zap.Int("stage1_passed", summary.Stage1Passed),
		zap.Int("stage2_passed", summary.Stage2Passed),
		zap.Int("fallback", summary.Fallback),
		zap.Int("persisted", summary.Persisted),
	)
}

func resolveDatabaseURL(config *Config) (string, error) {
	if config == nil || config.Database == nil {
		return "", errors.New("database configuration is required")
	}

	return secrets.Load(secrets.Source{
		Name:  "database url",
		Value: config.Database.URL,
		File:  config.Database.URLFile,
	})
}

func buildClassifier(ctx context.Context, config *Config, logger *zap.Logger, dryRun bool) (ai.Classifier, string, error) {
	if dryRun {
		return failingClassifier{}, "deterministic", nil
	}

	if config.AI == nil || config.AI.Gemini == nil {
		return nil, "", errors.New("ai.gemini configuration is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, "", fmt.Errorf("loading gemini api key: %w", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, "", err
	}

	return gemini.NewClassifier(generator, logger, config.AI.Gemini.MaxLogLength), generator.Model(), nil
}

// failingClassifier forces every batch onto the deterministic fallback,
// which makes dry runs reproducible without network access.
type failingClassifier struct{}

func (failingClassifier) ClassifyBatch(context.Context, *ai.Request) ([]*ai.Verdict, *ai.Usage, error) {
	return nil, nil, ai.ErrAnalysisFailed
}
