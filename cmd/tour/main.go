package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"tour-planner/internal/database"
	"tour-planner/internal/genetic"
	"tour-planner/internal/models"
	"tour-planner/internal/routing"
	"tour-planner/internal/sqlite"
)

type options struct {
	cfg          genetic.Config
	pointsFile   string
	random       int
	setID        int64
	dbPath       string
	outFile      string
	saveDefaults bool
}

func main() {
	appConfig, err := database.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	base, err := genetic.DefaultConfig().WithOverrides(appConfig.Solver)
	if err != nil {
		log.Fatalf("Invalid solver settings in config file: %v", err)
	}

	opts, err := parseFlags(os.Args[1:], base)
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	if opts.saveDefaults {
		if err := saveDefaults(appConfig, opts.cfg); err != nil {
			log.Fatalf("Failed to save defaults: %v", err)
		}
		fmt.Println("Saved solver defaults")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		if errors.Is(err, genetic.ErrPermutationInvariant) {
			log.Fatalf("Corrupted tour, aborting: %v", err)
		}
		log.Fatalf("Fatal error: %v", err)
	}
}

// parseFlags reads solver settings from flags, then the TOUR_* environment,
// then defaults
func parseFlags(args []string, defaults genetic.Config) (*options, error) {
	opts := &options{}
	var strategy string

	fs := flag.NewFlagSet("tour", flag.ContinueOnError)
	fs.IntVar(&opts.cfg.Generations, "generations", getEnvInt("TOUR_GENERATIONS", defaults.Generations), "number of generations")
	fs.IntVar(&opts.cfg.PopulationSize, "population", getEnvInt("TOUR_POPULATION", defaults.PopulationSize), "population size")
	fs.Float64Var(&opts.cfg.CrossoverProb, "crossover", getEnvFloat("TOUR_CROSSOVER", defaults.CrossoverProb), "crossover probability per pair")
	fs.Float64Var(&opts.cfg.MutationProb, "mutation", getEnvFloat("TOUR_MUTATION", defaults.MutationProb), "mutation probability per individual")
	fs.IntVar(&opts.cfg.TournamentSize, "tournament", getEnvInt("TOUR_TOURNAMENT", defaults.TournamentSize), "tournament size")
	fs.Float64Var(&opts.cfg.GeneMutationProb, "indpb", getEnvFloat("TOUR_INDPB", defaults.GeneMutationProb), "per-gene swap probability")
	fs.Uint64Var(&opts.cfg.Seed, "seed", getEnvUint("TOUR_SEED", defaults.Seed), "random seed (0 seeds from the clock)")
	fs.IntVar(&opts.cfg.Workers, "workers", getEnvInt("TOUR_WORKERS", defaults.Workers), "parallel fitness evaluators")
	fs.StringVar(&strategy, "strategy", getEnv("TOUR_STRATEGY", string(defaults.SeedStrategy)), "initial population: hull_shuffled, hull or random")
	fs.BoolVar(&opts.cfg.CheckInvariants, "check", false, "verify every individual is a permutation after each generation")
	fs.StringVar(&opts.pointsFile, "points", "", "points file (JSON or CSV)")
	fs.IntVar(&opts.random, "random", database.DefaultRandomPoints, "number of random points when no file or set is given")
	fs.Int64Var(&opts.setID, "set", 0, "stored point set ID (requires -db)")
	fs.StringVar(&opts.dbPath, "db", getEnv("TOUR_DB_PATH", ""), "SQLite database to save the run in")
	fs.StringVar(&opts.outFile, "out", "", "write the result as JSON to this file")
	fs.BoolVar(&opts.saveDefaults, "save-defaults", false, "store the solver settings in the config file and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	parsed, err := genetic.ParseSeedStrategy(strategy)
	if err != nil {
		return nil, err
	}
	opts.cfg.SeedStrategy = parsed

	if opts.setID != 0 && opts.dbPath == "" {
		return nil, errors.New("-set requires -db")
	}
	if opts.setID != 0 && opts.pointsFile != "" {
		return nil, errors.New("-set and -points are mutually exclusive")
	}

	return opts, opts.cfg.Validate()
}

func run(ctx context.Context, opts *options) error {
	resolveSeed(&opts.cfg)

	var store *sqlite.Store
	if opts.dbPath != "" {
		var err error
		store, err = sqlite.New(opts.dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
	}

	points, pointSetID, err := loadPoints(ctx, opts, store)
	if err != nil {
		return err
	}

	result, err := routing.NewGeneticPlanner().Plan(ctx, &routing.PlanRequest{
		Points: points,
		Config: opts.cfg,
		Report: printGeneration,
	})
	if err != nil {
		return err
	}

	printResult(result)

	if opts.outFile != "" {
		if err := writeResult(opts.outFile, result); err != nil {
			return err
		}
	}

	if store != nil {
		if pointSetID == nil {
			ps, err := store.PointSets().Create(ctx, &models.PointSet{Name: pointSetName(opts), Points: points})
			if err != nil {
				return fmt.Errorf("failed to save points: %w", err)
			}
			pointSetID = &ps.ID
		}

		params := opts.cfg.Params()
		params.Seed = result.Seed
		record := &models.Run{
			ID:           uuid.NewString(),
			PointSetID:   pointSetID,
			PointCount:   len(points),
			Params:       params,
			BestRoute:    result.Tour.Route,
			BestDistance: result.Tour.Distance,
			Evaluations:  result.Evaluations,
			DurationMs:   result.Duration.Milliseconds(),
			Generations:  result.Generations,
			CreatedAt:    time.Now(),
		}
		if _, err := store.Runs().Create(ctx, record); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("Saved run %s\n", record.ID)
	}

	return nil
}

func loadPoints(ctx context.Context, opts *options, store *sqlite.Store) ([]models.Point, *int64, error) {
	switch {
	case opts.setID != 0:
		ps, err := store.PointSets().GetByID(ctx, opts.setID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load point set: %w", err)
		}
		if ps == nil {
			return nil, nil, fmt.Errorf("point set %d: %w", opts.setID, database.ErrNotFound)
		}
		log.Printf("[POINTS] Loaded point set %q: points=%d", ps.Name, len(ps.Points))
		id := ps.ID
		return ps.Points, &id, nil
	case opts.pointsFile != "":
		points, err := database.LoadPointsFile(opts.pointsFile)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[POINTS] Loaded %s: points=%d", opts.pointsFile, len(points))
		return points, nil, nil
	default:
		seed := opts.cfg.Seed
		points := database.RandomPoints(opts.random, rand.New(rand.NewPCG(seed, seed^0x5bd1e995)))
		log.Printf("[POINTS] Generated random points: count=%d", len(points))
		return points, nil, nil
	}
}

// pointSetName labels points stored alongside a run
func pointSetName(opts *options) string {
	if opts.pointsFile != "" {
		return filepath.Base(opts.pointsFile)
	}
	return fmt.Sprintf("random %d seed %d", opts.random, opts.cfg.Seed)
}

// resolveSeed replaces a clock seed request with a concrete seed, so the
// random points and the evolution replay from the one printed seed
func resolveSeed(cfg *genetic.Config) {
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
}

func saveDefaults(appConfig *database.AppConfig, cfg genetic.Config) error {
	appConfig.Solver = cfg.Overrides()
	return database.SaveConfig(appConfig)
}

func printGeneration(s models.GenerationStats) {
	fmt.Printf("Generation %d: Min %.6f, Max %.6f, Avg %.6f, Std %.6f\n", s.Generation, s.Min, s.Max, s.Mean, s.Std)
}

func printResult(result *models.PlanResult) {
	fmt.Printf("Best route: %v\n", result.Tour.Route)
	fmt.Printf("Distance: %.6f\n", result.Tour.Distance)
	if len(result.Path) > 1 {
		first, last := result.Path[0], result.Path[len(result.Path)-2]
		fmt.Printf("Start: point %d (%.4f, %.4f)  End: point %d (%.4f, %.4f)\n",
			result.Tour.First(), first.X, first.Y, result.Tour.Last(), last.X, last.Y)
	}
	if result.Fallback {
		fmt.Println("Initial population was random (points are collinear or coincident)")
	}
	fmt.Printf("Seed %d, %s evaluations in %v\n", result.Seed, humanize.Comma(int64(result.Evaluations)), result.Duration.Round(time.Millisecond))
}

func writeResult(path string, result *models.PlanResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	log.Printf("[OUTPUT] Wrote %s (%s)", path, humanize.Bytes(uint64(len(data))))
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[CONFIG] Ignoring %s=%q: %v", key, value, err)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("[CONFIG] Ignoring %s=%q: %v", key, value, err)
		return defaultValue
	}
	return f
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		log.Printf("[CONFIG] Ignoring %s=%q: %v", key, value, err)
		return defaultValue
	}
	return u
}
