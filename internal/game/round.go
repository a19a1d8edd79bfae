// internal/game/round.go
package game

import (
	"context"
	"errors"
	"fmt"
)

// RoundState is a state of the round state machine.
type RoundState int

const (
	AwaitingDeclaredRank RoundState = iota
	InTurn
	ChallengeWindow
	Resolved
	AllPassed
	Won // a player emptied their hand; the game ends with the round
)

var roundStateNames = [...]string{"awaiting_declared_rank", "in_turn", "challenge_window", "resolved", "all_passed", "won"}

func (s RoundState) String() string {
	if s < 0 || int(s) >= len(roundStateNames) {
		return fmt.Sprintf("RoundState(%d)", int(s))
	}
	return roundStateNames[s]
}

// DeclaredPlay is a card on the stack with the rank claimed for it.
type DeclaredPlay struct {
	Card     Card `json:"card"`
	Declared Rank `json:"declared"`
	Seat     int  `json:"seat"`
}

// Round is the state of the round in progress.
type Round struct {
	Number    int
	State     RoundState
	Rank      Rank
	Leader    int
	Current   int
	PassCount int
	Stack     []DeclaredPlay // oldest first
}

// StackCards returns the cards on the stack, oldest first.
func (r *Round) StackCards() []Card {
	out := make([]Card, len(r.Stack))
	for i, p := range r.Stack {
		out[i] = p.Card
	}
	return out
}

// RoundResult summarizes how a round ended.
type RoundResult struct {
	Number       int
	Rank         Rank
	State        RoundState
	AllPassed    bool
	Declarer     *Player // whose play was challenged
	Challenger   *Player
	Winner       *Player // winner of the challenge
	Loser        *Player // received the stack
	CardsAwarded []Card
	Carried      []Card // stack left for the next round by an all-pass
	GameWinner   *Player
}

// PlayRound runs one round to completion: a resolved challenge, an all-pass, or
// a player emptying their hand.
func (g *BluffGame) PlayRound(ctx context.Context) (RoundResult, error) {
	if g.GameOver {
		return RoundResult{}, ErrGameOver
	}
	if !g.Started {
		if err := g.Start(); err != nil {
			return RoundResult{}, err
		}
	}

	g.RoundsPlayed++
	r := &Round{Number: g.RoundsPlayed, State: AwaitingDeclaredRank}
	if prev := g.round; prev != nil && prev.State == AllPassed {
		r.Stack, prev.Stack = prev.Stack, nil
	}
	g.round = r
	res := RoundResult{Number: r.Number}

	if w := g.checkWinner(); w != nil {
		return g.endRound(r, res), nil
	}

	r.Leader = g.nextActive(g.leader - 1)
	rank, err := g.startingRank(ctx, g.Players[r.Leader])
	if err != nil {
		return res, err
	}
	r.Rank = rank
	res.Rank = rank
	g.emit(GameEvent{
		Type:     EventRoundStarted,
		User:     eventUser(g.Players[r.Leader]),
		Declared: rankPtr(rank),
	})
	g.Log.WithField("round", r.Number).Debugf("round started by %s, rank %s", g.Players[r.Leader].Name, rank)

	r.Current = r.Leader
	r.State = InTurn
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if w := g.checkWinner(); w != nil {
			return g.endRound(r, res), nil
		}

		actor := g.Players[r.Current]
		play, err := actor.Policy.ChoosePlay(ctx, actor.Hand, r.Rank)
		if errors.Is(err, ErrEmptyHand) {
			play = PassPlay
		} else if err != nil {
			return res, fmt.Errorf("%s choosing a play: %w", actor.Name, err)
		}

		if play.Pass {
			r.PassCount++
			g.emit(GameEvent{
				Type:     EventPassed,
				User:     eventUser(actor),
				Declared: rankPtr(r.Rank),
				Payload:  map[string]interface{}{"pass_count": r.PassCount},
			})
			if r.PassCount >= g.activeCount() {
				return g.allPassed(r, res), nil
			}
			r.Current = g.nextActive(r.Current)
			continue
		}

		play.Declared = r.Rank
		r.Stack = append(r.Stack, DeclaredPlay{Card: play.Card, Declared: play.Declared, Seat: r.Current})
		r.PassCount = 0
		g.emit(GameEvent{
			Type:     EventCardPlayed,
			User:     eventUser(actor),
			Declared: rankPtr(play.Declared),
			Card:     rankPtr(play.Card),
			Payload: map[string]interface{}{
				"stack_size": len(r.Stack),
				"hand_size":  actor.Hand.Len(),
			},
		})
		if w := g.checkWinner(); w != nil {
			return g.endRound(r, res), nil
		}

		r.State = ChallengeWindow
		challenger, err := g.challengeWindow(ctx, r)
		if err != nil {
			return res, err
		}
		if challenger >= 0 {
			return g.resolve(r, res, challenger), nil
		}
		r.State = InTurn
		r.Current = g.nextActive(r.Current)
	}
}

// challengeWindow asks each other active player, in rotation order after the
// actor, whether to challenge. The first yes wins; the rest are not asked.
func (g *BluffGame) challengeWindow(ctx context.Context, r *Round) (int, error) {
	actor := g.Players[r.Current]
	for _, seat := range g.challengeOrder(r.Current) {
		observer := g.Players[seat]
		view := ChallengeView{Declarer: actor.Name, StackSize: len(r.Stack), Hand: observer.Hand}
		yes, err := observer.Policy.DecideChallenge(ctx, r.Rank, view)
		if err != nil {
			return -1, fmt.Errorf("%s deciding a challenge: %w", observer.Name, err)
		}
		g.emit(GameEvent{
			Type:     EventChallengeDecided,
			User:     eventUser(observer),
			Declared: rankPtr(r.Rank),
			Payload:  map[string]interface{}{"challenge": yes, "declarer": actor.Name},
		})
		if yes {
			return seat, nil
		}
	}
	return -1, nil
}

// resolve reveals the last play. A false declaration sends the whole stack to
// the declarer; a true one sends it to the challenger.
func (g *BluffGame) resolve(r *Round, res RoundResult, challengerSeat int) RoundResult {
	last := r.Stack[len(r.Stack)-1]
	declarer := g.Players[last.Seat]
	challenger := g.Players[challengerSeat]

	winner, loser := declarer, challenger
	loserSeat := challengerSeat
	bluff := last.Card != last.Declared
	if bluff {
		winner, loser = challenger, declarer
		loserSeat = last.Seat
	}

	cards := r.StackCards()
	r.Stack = nil
	loser.Receive(cards...)
	winner.ChallengesWon++
	r.State = Resolved
	g.leader = loserSeat

	res.State = Resolved
	res.Declarer = declarer
	res.Challenger = challenger
	res.Winner = winner
	res.Loser = loser
	res.CardsAwarded = cards

	g.emit(GameEvent{
		Type:     EventChallengeResolved,
		User:     eventUser(challenger),
		Declared: rankPtr(last.Declared),
		Card:     rankPtr(last.Card),
		Payload: map[string]interface{}{
			"declarer":      declarer.Name,
			"bluff":         bluff,
			"winner":        winner.Name,
			"loser":         loser.Name,
			"cards_awarded": len(cards),
		},
	})
	g.Log.WithField("round", r.Number).Debugf("%s challenged %s (bluff=%t); %s takes %d cards",
		challenger.Name, declarer.Name, bluff, loser.Name, len(cards))

	if w := g.checkWinner(); w != nil {
		res.GameWinner = w
	}
	return res
}

// allPassed ends the round without a challenge. The stack stays where it is and
// opens the next round, so its cards go to the loser of a later challenge.
func (g *BluffGame) allPassed(r *Round, res RoundResult) RoundResult {
	r.State = AllPassed
	g.leader = g.nextActive(r.Current)

	res.State = AllPassed
	res.AllPassed = true
	res.Carried = r.StackCards()
	g.emit(GameEvent{
		Type:     EventAllPassed,
		Declared: rankPtr(r.Rank),
		Payload:  map[string]interface{}{"carried": len(r.Stack)},
	})
	return res
}

// endRound closes a round cut short by a winner.
func (g *BluffGame) endRound(r *Round, res RoundResult) RoundResult {
	r.State = Won
	res.State = Won
	res.GameWinner = g.Winner
	return res
}

// startingRank takes a rank carried over by the caller first, then asks a leader
// that declares ranks itself, and otherwise draws one at random.
func (g *BluffGame) startingRank(ctx context.Context, leader *Player) (Rank, error) {
	if g.NextRank != nil {
		r := *g.NextRank
		g.NextRank = nil
		if !r.Valid() {
			return 0, ErrInvalidRank
		}
		return r, nil
	}
	if d, ok := leader.Policy.(RankDeclarer); ok {
		r, err := d.DeclareRank(ctx, leader.Hand)
		if err != nil {
			return 0, fmt.Errorf("%s declaring a rank: %w", leader.Name, err)
		}
		return r, nil
	}
	return AllRanks[g.rng.IntN(NumRanks)], nil
}

// nextActive returns the first seat after seat that still holds cards. With no
// active seat it returns the seat after seat.
func (g *BluffGame) nextActive(seat int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		s := ((seat+i)%n + n) % n
		if g.Players[s].Active() {
			return s
		}
	}
	return ((seat+1)%n + n) % n
}

// challengeOrder lists the active seats other than actor, starting right after it.
func (g *BluffGame) challengeOrder(actor int) []int {
	n := len(g.Players)
	seats := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		s := (actor + i) % n
		if g.Players[s].Active() {
			seats = append(seats, s)
		}
	}
	return seats
}

func (g *BluffGame) activeCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Active() {
			n++
		}
	}
	return n
}
