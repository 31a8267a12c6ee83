// Package sequence picks the globally best role sequence over a block
// chain with a two-state Viterbi pass. Emission costs come from the
// local p_ai; transition costs depend on the surrounding blocks rather
// than a static matrix.
package sequence

import (
	"math"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Optimizer runs the Viterbi dynamic program over scored blocks
type Optimizer struct {
	cfg model.SequenceConfig
}

// NewOptimizer creates an optimizer with the given tuning
func NewOptimizer(cfg *model.Config) *Optimizer {
	return &Optimizer{cfg: cfg.Sequence}
}

var states = [2]model.Role{model.RoleUser, model.RoleAI}

// EmissionCost is the negative log-likelihood of a role for one block
func (o *Optimizer) EmissionCost(b model.ScoredBlock, role model.Role) float64 {
	p := b.PAI
	if role == model.RoleUser {
		p = 1 - p
	}
	if p < o.cfg.EmissionFloor {
		p = o.cfg.EmissionFloor
	}
	return -math.Log(p)
}

// TransitionCost is the cost of moving from prevRole on block prev to
// curRole on block cur. It is asymmetric and context-dependent: a
// question makes a user->ai hand-off cheap, and consecutive long user
// turns are unnatural.
func (o *Optimizer) TransitionCost(prev model.ScoredBlock, prevRole model.Role, cur model.ScoredBlock, curRole model.Role) float64 {
	c := o.cfg
	cc := cur.Features.CharCount

	switch {
	case prevRole == model.RoleUser && curRole == model.RoleAI:
		cost := c.SwitchBase
		pf := prev.Features
		if pf.HasQuestion || pf.HasErrorKeyword || pf.HasImperativeForm {
			cost -= c.AnswerDiscount
		}
		if cost < c.TransitionFloor {
			cost = c.TransitionFloor
		}
		return cost

	case prevRole == model.RoleAI && curRole == model.RoleUser:
		return c.SwitchBase

	case prevRole == model.RoleUser: // user -> user
		switch {
		case cc < 50:
			return c.StayCheap
		case cc < 100:
			return c.StayMid
		default:
			return c.StayExpensive
		}

	default: // ai -> ai
		switch {
		case cc >= 100:
			return c.StayCheap
		case cc >= 50:
			return c.StayMid
		default:
			return c.StayExpensive
		}
	}
}

// InitialCost is the cost of opening the conversation in a role
func (o *Optimizer) InitialCost(b model.ScoredBlock, role model.Role) float64 {
	cost := o.EmissionCost(b, role)
	if role == model.RoleAI {
		cost += o.cfg.AIStartPenalty
	}
	return cost
}

// PathCost totals emission, initial, and transition costs for an
// explicit role assignment. Used to verify optimality in tests.
func (o *Optimizer) PathCost(blocks []model.ScoredBlock, roles []model.Role) float64 {
	total := 0.0
	for i, b := range blocks {
		if i == 0 {
			total += o.InitialCost(b, roles[0])
			continue
		}
		total += o.EmissionCost(b, roles[i])
		total += o.TransitionCost(blocks[i-1], roles[i-1], b, roles[i])
	}
	return total
}

// Optimize finds the minimum-cost role path and returns the blocks with
// roles and sequence-adjusted confidences attached.
func (o *Optimizer) Optimize(blocks []model.ScoredBlock) []model.OptimizedBlock {
	n := len(blocks)
	if n == 0 {
		return nil
	}

	cost := make([][2]float64, n)
	back := make([][2]int, n)

	for s, role := range states {
		cost[0][s] = o.InitialCost(blocks[0], role)
	}

	for i := 1; i < n; i++ {
		for s, role := range states {
			emit := o.EmissionCost(blocks[i], role)
			best := math.Inf(1)
			bestPrev := 0
			for ps, prevRole := range states {
				c := cost[i-1][ps] + o.TransitionCost(blocks[i-1], prevRole, blocks[i], role)
				if c < best {
					best = c
					bestPrev = ps
				}
			}
			cost[i][s] = best + emit
			back[i][s] = bestPrev
		}
	}

	// Backtrack from the cheaper final state
	path := make([]int, n)
	if cost[n-1][1] < cost[n-1][0] {
		path[n-1] = 1
	}
	for i := n - 1; i > 0; i-- {
		path[i-1] = back[i][path[i]]
	}

	out := make([]model.OptimizedBlock, n)
	for i, b := range blocks {
		role := states[path[i]]
		out[i] = model.OptimizedBlock{
			ScoredBlock: b,
			Role:        role,
			Confidence:  o.adjustConfidence(b, role),
		}
	}
	return out
}

// adjustConfidence rewards agreement between the sequence-level choice
// and the local evidence, and punishes disagreement
func (o *Optimizer) adjustConfidence(b model.ScoredBlock, role model.Role) float64 {
	localAI := b.PAI > 0.5
	agrees := (role == model.RoleAI) == localAI

	conf := b.LocalConfidence
	if agrees {
		conf *= o.cfg.ConfidenceBoost
		if conf > 1 {
			conf = 1
		}
	} else {
		conf *= o.cfg.ConfidenceShrink
	}
	return conf
}
