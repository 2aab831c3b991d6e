// Package game implements the score-keeping engine for a cue-sports session.
//
// The main type is Store, which owns the roster, the selected player, the
// advisory turn order and the log of finished rounds. Every mutation is a
// method on Store; the presentation reads a fresh copy of the state after
// each one and never holds references into it.
//
// # Basic Usage
//
//	s := game.NewStore()
//	tom, _ := s.AddPlayer("Tom")
//	_, _ = s.AddPlayer("Ann")
//	_ = s.SelectPlayer(tom.ID)
//	_, _ = s.ApplyScore(catalog.Black)
//	entry, _ := s.EndRound()
//	for _, r := range entry.Ranked() {
//	    fmt.Println(r.Pos, r.Player.Name, r.Player.Score)
//	}
//
// # Intents
//
// Presentations that want the handle, persist, re-read cycle use Session,
// which accepts the closed set of Intent values (AddPlayer, ApplyScore,
// EndRound, ...) and saves through a Persister after every change.
//
// # Deterministic Testing
//
// Inject a clock, a random source and an id generator:
//
//	s := game.NewStore(
//	    game.WithClock(quartz.NewMock(t)),
//	    game.WithRand(randutil.New(42)),
//	    game.WithIDGenerator(ids.Sequence("p")),
//	)
//
// Expected misuse (duplicate names, scoring with nobody selected, ending an
// empty round) is reported through the sentinel errors in errors.go and
// leaves the state untouched.
package game
