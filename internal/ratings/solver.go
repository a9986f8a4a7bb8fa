package ratings

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"
)

// conditionLimit is the largest condition number of A still treated as solvable.
// Exactly singular participation matrices come back as +Inf; round-off on nearly
// singular ones lands well above this.
const conditionLimit = 1e12

// Solve computes OPR, DPR and CCWM for every team in teams from the given scored matches.
//
// Teams are indexed in the order given. A[i][j] counts the alliances on which i and j
// played together (A[i][i] is the number of matches i played) and each rating vector is
// the solution of A·x = B for its own right-hand side. When A cannot be inverted the
// result is Indeterminate rather than a set of made-up numbers.
func Solve(matches []Match, teams []string) Result {
	n := len(teams)
	if n == 0 || len(matches) == 0 {
		return indeterminate("no scored matches")
	}

	index := make(map[string]int, n)
	for i, team := range teams {
		index[team] = i
	}

	a := mat.NewDense(n, n, nil)
	bOpr := make([]float64, n)
	bDpr := make([]float64, n)
	bCcwm := make([]float64, n)

	for _, m := range matches {
		accumulate(a, index, m.Red.Teams, m.Red.Score, m.Blue.Score, bOpr, bDpr, bCcwm)
		accumulate(a, index, m.Blue.Teams, m.Blue.Score, m.Red.Score, bOpr, bDpr, bCcwm)
	}

	var lu mat.LU
	lu.Factorize(a)
	if cond := lu.Cond(); math.IsInf(cond, 1) || math.IsNaN(cond) || cond > conditionLimit {
		log.Debug("Participation matrix is singular", "teams", n, "condition", cond)
		return indeterminate(fmt.Sprintf("participation matrix is singular (condition %g)", cond))
	}

	opr, err := solveVec(&lu, bOpr)
	if err != nil {
		return indeterminate(err.Error())
	}
	dpr, err := solveVec(&lu, bDpr)
	if err != nil {
		return indeterminate(err.Error())
	}
	ccwm, err := solveVec(&lu, bCcwm)
	if err != nil {
		return indeterminate(err.Error())
	}

	out := make(map[string]TeamRating, n)
	for i, team := range teams {
		out[team] = TeamRating{
			OPR:  Round2(opr[i]),
			DPR:  Round2(dpr[i]),
			CCWM: Round2(ccwm[i]),
		}
	}
	return Result{Status: StatusSolved, Ratings: out}
}

func accumulate(a *mat.Dense, index map[string]int, alliance []string, own, opp int, bOpr, bDpr, bCcwm []float64) {
	members := make([]int, 0, len(alliance))
	seen := make(map[int]bool, len(alliance))
	for _, team := range alliance {
		i, ok := index[team]
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		members = append(members, i)
	}

	for _, i := range members {
		for _, j := range members {
			a.Set(i, j, a.At(i, j)+1)
		}
		bOpr[i] += float64(own)
		bDpr[i] += float64(opp)
		bCcwm[i] += float64(own - opp)
	}
}

func solveVec(lu *mat.LU, b []float64) ([]float64, error) {
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, mat.NewVecDense(len(b), b)); err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}
	out := make([]float64, len(b))
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

func indeterminate(reason string) Result {
	return Result{Status: StatusIndeterminate, Reason: reason}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
