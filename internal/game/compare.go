package game

// Compare scores guess against target attribute by attribute.
// It is pure and total: every pair of characters yields a full Comparison.
func Compare(guess, target Character) Comparison {
	return Comparison{
		Name:             equalResult(guess.Name == target.Name),
		Gender:           equalResult(guess.Gender == target.Gender),
		Affiliation:      equalResult(guess.Affiliation == target.Affiliation),
		Height:           compareHeight(guess.Height, target.Height),
		FirstSeenChapter: compareChapter(guess.FirstSeenChapter, target.FirstSeenChapter),
		Aliases:          compareAliases(guess.Aliases, target.Aliases),
	}
}

func equalResult(ok bool) Result {
	if ok {
		return ResultCorrect
	}
	return ResultIncorrect
}

// compareHeight returns the direction the next guess should move in: a taller
// guess than the target yields "lower". An unranked side gives no direction, so
// the verdict is "incorrect", even when both sides are Unknown.
func compareHeight(guess, target Height) Result {
	g, t := guess.Rank(), target.Rank()
	if g == 0 || t == 0 {
		return ResultIncorrect
	}
	switch {
	case g == t:
		return ResultCorrect
	case g > t:
		return ResultLower
	default:
		return ResultHigher
	}
}

func compareChapter(guess, target int) Result {
	switch {
	case guess == target:
		return ResultCorrect
	case guess > target:
		return ResultLater
	default:
		return ResultEarlier
	}
}

// compareAliases uses set semantics: order and duplicates are irrelevant,
// case is folded and blank entries are ignored.
func compareAliases(guess, target []string) Result {
	gs, ts := aliasSet(guess), aliasSet(target)
	if len(gs) == 0 && len(ts) == 0 {
		return ResultCorrect
	}
	overlap := 0
	for a := range gs {
		if _, ok := ts[a]; ok {
			overlap++
		}
	}
	if overlap == len(gs) && overlap == len(ts) {
		return ResultCorrect
	}
	if overlap > 0 {
		return ResultPartial
	}
	return ResultIncorrect
}

func aliasSet(aliases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		if n := normalize(a); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
