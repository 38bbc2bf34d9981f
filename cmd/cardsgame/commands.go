package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/cardsgame/cmd/cardsgame/shared"
	"github.com/lox/cardsgame/internal/classic"
	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/randutil"
	"github.com/lox/cardsgame/internal/service"
	"github.com/lox/cardsgame/internal/simulator"
	"github.com/lox/cardsgame/internal/tui"
)

// NewCmd creates a game.
type NewCmd struct {
	Player string `arg:"" help:"Your player name"`
	Vs     string `help:"Opponent name (defaults to the computer player)"`
}

func (c *NewCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := g.open(ctx)
	if err != nil {
		return err
	}

	var created *game.Game
	if c.Vs != "" {
		created, err = a.svc.CreateMatch(ctx, c.Player, c.Vs)
	} else {
		created, err = a.svc.CreateGame(ctx, c.Player)
	}
	if err != nil {
		return err
	}
	if g.JSON {
		return printJSON(os.Stdout, map[string]string{"_id": created.ID})
	}
	fmt.Println(created.ID)
	return nil
}

// ShowCmd prints a stored game.
type ShowCmd struct {
	ID      string `arg:"" help:"Game id"`
	History bool   `help:"Include the turn history"`
}

func (c *ShowCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	found, err := a.svc.GetGame(ctx, c.ID)
	if err != nil {
		return err
	}
	if g.JSON {
		return printJSON(os.Stdout, found)
	}
	fmt.Print(renderGame(found, c.History))
	return nil
}

// ListCmd lists stored games.
type ListCmd struct {
	Status string `default:"any" enum:"any,finished,unfinished" help:"Filter by status (any, finished, unfinished)"`
	IDs    bool   `name:"ids" help:"Print only game ids"`
}

func (c *ListCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	status, err := service.ParseStatus(c.Status)
	if err != nil {
		return err
	}

	if c.IDs {
		ids, err := a.svc.ListGameIDs(ctx, status)
		if err != nil {
			return err
		}
		if g.JSON {
			return printJSON(os.Stdout, ids)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	games, err := a.svc.ListGames(ctx, status)
	if err != nil {
		return err
	}
	if g.JSON {
		summaries := make([]game.Summary, len(games))
		for i, found := range games {
			summaries[i] = game.Summarize(found)
		}
		return printJSON(os.Stdout, summaries)
	}
	fmt.Print(renderList(games))
	return nil
}

// HandCmd deals the next turn's hands.
type HandCmd struct {
	ID string `arg:"" help:"Game id"`
}

func (c *HandCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	dealt, err := a.svc.DealHand(ctx, c.ID)
	if err != nil {
		return err
	}
	view := game.NewHandView(dealt)
	if g.JSON {
		return printJSON(os.Stdout, view)
	}
	fmt.Print(renderHandView(view, a.engine.IsComputer(dealt.NameP2)))
	return nil
}

// TurnCmd plays the current turn.
type TurnCmd struct {
	ID      string `arg:"" help:"Game id"`
	Indexes []int  `arg:"" help:"Indexes of the cards player one plays"`
	P2      []int  `name:"p2" help:"Indexes for player two when it is not the computer"`
}

func (c *TurnCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	played, result, err := a.svc.PlayTurn(ctx, c.ID, c.Indexes, c.P2)
	if err != nil {
		return err
	}
	if g.JSON {
		return printJSON(os.Stdout, result)
	}
	fmt.Print(renderTurnResult(result, played.DeckP1.SpecialRanks))
	return nil
}

// DeleteCmd removes a game.
type DeleteCmd struct {
	ID string `arg:"" help:"Game id"`
}

func (c *DeleteCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	if err := a.svc.DeleteGame(ctx, c.ID); err != nil {
		return err
	}
	if g.JSON {
		return printJSON(os.Stdout, map[string]bool{"success": true})
	}
	fmt.Println("deleted", c.ID)
	return nil
}

// PlayCmd starts the interactive terminal game.
type PlayCmd struct {
	Name string `default:"Player" help:"Your player name"`
	Game string `help:"Resume an existing game by id"`
}

func (c *PlayCmd) Run(g *Globals) error {
	_, logger, err := g.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	a, err := g.open(ctx)
	if err != nil {
		return err
	}
	final, err := tui.Run(ctx, a.svc, c.Name, c.Game, a.logger)
	if err != nil {
		return err
	}
	if final != nil {
		fmt.Printf("Game %s: %s\n", final.ID, renderOutcome(final))
	}
	return nil
}

// SimulateCmd runs a batch of computer games.
type SimulateCmd struct {
	Games   int    `default:"1000" help:"Number of games to simulate"`
	Workers int    `default:"0" help:"Concurrent games (0 for one per CPU)"`
	P1      string `name:"p1" default:"random" enum:"closest,random" help:"Player one strategy"`
	P2      string `name:"p2" default:"closest" enum:"closest,random" help:"Player two strategy"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, logger, err := g.loadConfig()
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	var seed int64
	if g.Seed != nil {
		seed = *g.Seed
	} else {
		_, seed = randutil.NewUnseeded()
	}
	logger.Info("Starting simulation", "games", c.Games, "seed", seed, "p1", c.P1, "p2", c.P2)

	stats, err := simulator.New(simulator.Config{
		Games:      c.Games,
		Seed:       seed,
		Workers:    c.Workers,
		StrategyP1: c.P1,
		StrategyP2: c.P2,
		Rules:      rules,
		Logger:     logger.WithPrefix("simulator"),
	}).Run(ctx)
	if err != nil {
		return err
	}
	if g.JSON {
		return printJSON(os.Stdout, stats)
	}
	simulator.PrintSummary(os.Stdout, stats)
	return nil
}

// ClassicCmd plays the one-card variant: higher rank takes both cards.
type ClassicCmd struct {
	P1       string `name:"p1" default:"Player" help:"Player one name"`
	P2       string `name:"p2" default:"PC" help:"Player two name"`
	MaxTurns int    `default:"500" help:"Turn limit; reaching it is a draw"`
	Quiet    bool   `help:"Print only the result"`
}

func (c *ClassicCmd) Run(g *Globals) error {
	cfg, logger, err := g.loadConfig()
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	full, err := deck.New(rules.NumRanks, rules.SpecialRanks, rules.Suits)
	if err != nil {
		return err
	}
	res, err := classic.Play(full, g.rand(logger), classic.Config{
		NameP1:   c.P1,
		NameP2:   c.P2,
		MaxTurns: c.MaxTurns,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if g.JSON {
		return printJSON(os.Stdout, res)
	}
	fmt.Print(renderClassic(res, !c.Quiet))
	return nil
}
