// cmd/bluff runs Bluff games on the terminal: one human against agents, or
// batches of agent-only games with a summary report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jason-s-yu/bluff/internal/cache"
	"github.com/jason-s-yu/bluff/internal/config"
	"github.com/jason-s-yu/bluff/internal/console"
	"github.com/jason-s-yu/bluff/internal/database"
	"github.com/jason-s-yu/bluff/internal/experiment"
	"github.com/jason-s-yu/bluff/internal/game"
	"github.com/jason-s-yu/bluff/internal/models"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func printUsage() {
	console.C.Header.Println("usage: bluff <command> [flags]")
	fmt.Println("  play       play against agents (-opponents zero,first -seed N -hand-size N -name NAME)")
	fmt.Println("  simulate   run agent-only games (-n GAMES -lineup zero,first -seed N -hand-size N)")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sinks := connectSinks(ctx, cfg, logger)
	defer sinks.close()

	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, cfg, logger, sinks, os.Args[2:])
	case "simulate":
		err = runSimulate(ctx, cfg, logger, sinks, os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if errors.Is(err, console.ErrAborted) {
		console.C.Warn.Println("game abandoned.")
		return
	}
	if err != nil {
		logger.Fatal(err)
	}
}

func runPlay(ctx context.Context, cfg config.Config, logger *logrus.Logger, sinks *sinks, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	opponents := fs.String("opponents", "first", "comma-separated opponent policies (zero, first)")
	seed := fs.Int64("seed", cfg.Seed, "game seed; 0 picks one")
	handSize := fs.Int("hand-size", 0, "cards per player; 0 deals the deck evenly")
	name := fs.String("name", "You", "your name at the table")
	fs.Parse(args)

	kinds, err := parseLineup(*opponents)
	if err != nil {
		return err
	}
	rules := game.HouseRules{HandSize: *handSize, Seed: *seed}
	if rules.Seed == 0 {
		rules.Seed = time.Now().UnixNano()
	}

	con := console.New()
	defer con.Close()

	human := game.NewPlayer(*name, game.NewHumanDelegate(con))
	con.HumanID = human.ID
	players := []*game.Player{human}
	for i, k := range kinds {
		if k == game.KindHuman {
			return fmt.Errorf("opponents must be agents, got %q", k)
		}
		p, err := game.NewAgent(fmt.Sprintf("P%d-%s", i+2, k), k, game.AgentRNG(rules.Seed, i+1))
		if err != nil {
			return err
		}
		players = append(players, p)
	}

	g, err := game.NewBluffGame(players, rules)
	if err != nil {
		return err
	}
	// Narration replaces per-event logs at the table.
	logger.SetLevel(logrus.WarnLevel)
	g.Log = logger.WithField("game_id", g.ID)
	g.Subscribe(con.Narrate)
	sinks.attach(g)

	res, err := g.Run(ctx)
	if err != nil {
		return err
	}
	if res.HumanWon {
		console.C.Good.Println("you win!")
	} else {
		console.C.Bad.Printf("%s (%s) wins.\n", res.Winner, res.WinnerKind)
	}
	console.RenderSummary(os.Stdout, experiment.Summarize([]models.GameResult{res}))
	return nil
}

func runSimulate(ctx context.Context, cfg config.Config, logger *logrus.Logger, sinks *sinks, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	games := fs.Int("n", 100, "number of games")
	lineup := fs.String("lineup", "zero,first", "comma-separated policies, one per seat")
	seed := fs.Int64("seed", cfg.Seed, "seed of the first game; game i uses seed+i")
	handSize := fs.Int("hand-size", 0, "cards per player; 0 deals the deck evenly")
	fs.Parse(args)

	kinds, err := parseLineup(*lineup)
	if err != nil {
		return err
	}
	console.C.Header.Printf("--- Running %d games: %s ---\n", *games, *lineup)
	summary, err := experiment.Run(ctx, experiment.Batch{
		Games:     *games,
		Lineup:    kinds,
		Rules:     game.HouseRules{HandSize: *handSize, Seed: *seed},
		Configure: sinks.attach,
	}, logger)
	if err != nil {
		return err
	}
	console.RenderSummary(os.Stdout, summary)
	return nil
}

func parseLineup(s string) ([]game.PolicyKind, error) {
	var kinds []game.PolicyKind
	for _, part := range strings.Split(s, ",") {
		k, err := game.ParsePolicyKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// sinks holds the optional Redis queue and database the games report to.
type sinks struct {
	queue  *cache.Queue
	db     bool
	logger *logrus.Logger
}

func connectSinks(ctx context.Context, cfg config.Config, logger *logrus.Logger) *sinks {
	s := &sinks{logger: logger}
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Warnf("action publishing disabled: %v", err)
		} else {
			s.queue = cache.NewQueue(rdb, cfg.QueueName)
		}
	}
	if cfg.DatabaseURL != "" {
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			logger.Warnf("result storage disabled: %v", err)
		} else {
			s.db = true
		}
	}
	return s
}

func (s *sinks) attach(g *game.BluffGame) {
	if s.queue != nil {
		g.Publisher = s.queue
	}
	if s.db {
		g.OnGameEnd = func(res models.GameResult) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.RecordGameResult(ctx, res); err != nil {
				s.logger.Warnf("recording game %s: %v", res.GameID, err)
			}
		}
	}
}

func (s *sinks) close() {
	if s.queue != nil {
		s.queue.Client.Close()
	}
	if s.db {
		database.Close()
	}
}
