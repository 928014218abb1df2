package engine

import (
	vm "chess-variant-engine/varmg"
)

// evaluateThreats scores attacks against enemy pieces: pawn threats,
// minor/rook piece pressure, hanging pieces, pawn pushes and slider
// pressure on the queen. Antichess and Losers run their own capture-race
// formula; Atomic skips the function entirely.
func (e *evaluation) evaluateThreats(us vm.Color) Score {
	b := e.b

	score := ScoreZero

	switch {
	case b.IsAnti():
		score = e.evaluateThreatsAnti(us, ThreatsAnti, &AttacksAnti, true)
	case b.IsAtomic():
		// No threat evaluation in Atomic.
	case b.IsLosers():
		score = e.evaluateThreatsAnti(us, ThreatsLosers, &AttacksLosers, false)
	default:
		score = e.evaluateThreatsDefault(us)
	}

	if e.trace != nil {
		e.trace.addColor(termThreat, us, score)
	}
	return score
}

func (e *evaluation) evaluateThreatsDefault(us vm.Color) Score {
	b := e.b
	them := us.Other()
	var rank3 uint64
	if us == vm.White {
		rank3 = vm.Rank3BB
	} else {
		rank3 = vm.Rank6BB
	}

	score := ScoreZero

	// Non-pawn enemies attacked by a pawn.
	weak := (b.Pieces(them) ^ b.Pieces(them, vm.Pawn)) & e.attackedBy[us][vm.Pawn]

	if weak != 0 {
		// Our pawns that are defended or not attacked at all.
		safePawns := b.Pieces(us, vm.Pawn) &
			(^e.attackedBy[them][vm.AllPieces] | e.attackedBy[us][vm.AllPieces])

		safeThreats := (vm.ShiftUpRight(us, safePawns) | vm.ShiftUpLeft(us, safePawns)) & weak
		score += ThreatBySafePawn.Mul(vm.PopCount(safeThreats))

		if weak^safeThreats != 0 {
			score += ThreatByHangingPawn
		}
	}

	// Squares strongly protected by the enemy: pawn-covered, or attacked
	// twice while we don't answer in kind.
	stronglyProtected := e.attackedBy[them][vm.Pawn] |
		(e.attackedBy2[them] &^ e.attackedBy2[us])

	// Non-pawn enemies, strongly protected.
	defended := (b.Pieces(them) ^ b.Pieces(them, vm.Pawn)) & stronglyProtected

	// Enemies not strongly protected and under our attack.
	weak = b.Pieces(them) &^ stronglyProtected & e.attackedBy[us][vm.AllPieces]

	if defended|weak != 0 {
		for bb := (defended | weak) & (e.attackedBy[us][vm.Knight] | e.attackedBy[us][vm.Bishop]); bb != 0; {
			s := vm.PopLsb(&bb)
			pt := b.PieceAt(s).Type()
			score += ThreatByMinor[pt]
			if pt != vm.Pawn {
				score += ThreatByRank.Mul(vm.RelativeRank(them, s))
			}
		}

		for bb := (b.Pieces(them, vm.Queen) | weak) & e.attackedBy[us][vm.Rook]; bb != 0; {
			s := vm.PopLsb(&bb)
			pt := b.PieceAt(s).Type()
			score += ThreatByRook[pt]
			if pt != vm.Pawn {
				score += ThreatByRank.Mul(vm.RelativeRank(them, s))
			}
		}

		score += Hanging.Mul(vm.PopCount(weak &^ e.attackedBy[them][vm.AllPieces]))

		if kingThreats := weak & e.attackedBy[us][vm.King]; kingThreats != 0 {
			score += ThreatByKing[b2i(vm.MoreThanOne(kingThreats))]
		}
	}

	// Bonus for opponent unopposed weak pawns while we keep heavy pieces.
	if b.Pieces(us, vm.Rook, vm.Queen) != 0 {
		score += WeakUnopposedPawn.Mul(e.pe.WeakUnopposed(them))
	}

	// Squares where our pawns can push next move.
	pushes := vm.ShiftUp(us, b.Pieces(us, vm.Pawn)) &^ b.Occupied()
	pushes |= vm.ShiftUp(us, pushes&rank3) &^ b.Occupied()

	// Keep the pushes which are not completely unsafe.
	pushes &= ^e.attackedBy[them][vm.Pawn] &
		(e.attackedBy[us][vm.AllPieces] | ^e.attackedBy[them][vm.AllPieces])

	// New pawn threats from those squares.
	pushThreats := (vm.ShiftUpLeft(us, pushes) | vm.ShiftUpRight(us, pushes)) &
		b.Pieces(them) &^ e.attackedBy[us][vm.Pawn]
	score += ThreatByPawnPush.Mul(vm.PopCount(pushThreats))

	if b.IsThreeCheck() {
		score += ChecksGivenBonus[minInt(b.ChecksGiven(us), 3)]
	}

	if b.IsHorde() && b.IsHordeColor(them) {
		// Reward closing in on a breakthrough of the pawn wall.
		if b.Pieces(us, vm.Rook)|b.Pieces(us, vm.Queen) != 0 {
			backRank := vm.Rank1BB
			if b.IsHordeColor(vm.Black) {
				backRank = vm.Rank8BB
			}
			minDoublet := 8
			if (e.attackedBy[us][vm.Queen]|e.attackedBy[us][vm.Rook])&backRank != 0 {
				minDoublet = 0
			} else {
				for f := 0; f < 8; f++ {
					pawns := vm.PopCount(b.Pieces(them, vm.Pawn) & vm.FileBB[f])
					left, right := 0, 0
					if f > 0 {
						left = minInt(vm.PopCount(b.Pieces(them, vm.Pawn)&vm.FileBB[f-1]), pawns)
					}
					if f < 7 {
						right = minInt(vm.PopCount(b.Pieces(them, vm.Pawn)&vm.FileBB[f+1]), pawns)
					}
					minDoublet = minInt(minDoublet, left+right)
				}
			}
			div := 4
			if b.Pieces(us, vm.Queen) != 0 {
				div = 2
			}
			score += ThreatByHangingPawn.Mul(b.Count(them, vm.Pawn) / (1 + minDoublet) / div)
		}
	}

	// Safe slider threats against the enemy queen.
	safeThreats := ^b.Pieces(us) & ^e.attackedBy2[them] & e.attackedBy2[us]
	sliderHits := (e.attackedBy[us][vm.Bishop] & e.attackedBy[them][vm.QueenDiagonal]) |
		(e.attackedBy[us][vm.Rook] & e.attackedBy[them][vm.Queen] &^ e.attackedBy[them][vm.QueenDiagonal])
	score += ThreatByAttackOnQueen.Mul(vm.PopCount(sliderHits & safeThreats))

	return score
}

// evaluateThreatsAnti runs the capture-race scoring shared by Antichess and
// Losers: penalties whenever we are forced to take, bonuses when we can
// force the opponent to.
func (e *evaluation) evaluateThreatsAnti(us vm.Color, threats [2]Score, attacks *[2][2][8]Score, countPieces bool) Score {
	b := e.b
	them := us.Other()
	var rank2 uint64
	if us == vm.White {
		rank2 = vm.Rank2BB
	} else {
		rank2 = vm.Rank7BB
	}

	score := ScoreZero
	weCapture := e.attackedBy[us][vm.AllPieces]&b.Pieces(them) != 0
	theyCapture := e.attackedBy[them][vm.AllPieces]&b.Pieces(us) != 0

	if weCapture {
		theyDefended := e.attackedBy[us][vm.AllPieces]&b.Pieces(them)&e.attackedBy[them][vm.AllPieces] != 0
		ti, di := b2i(theyCapture), b2i(theyDefended)
		for pt := vm.Pawn; pt <= vm.King; pt++ {
			if e.attackedBy[us][pt]&b.Pieces(them)&^e.attackedBy2[us] != 0 {
				score -= attacks[ti][di][pt]
			} else if e.attackedBy[us][pt]&b.Pieces(them) != 0 {
				score -= attacks[ti][di][vm.NoPieceType]
			}
		}
		if theyCapture && countPieces {
			score -= PieceCountAnti.Mul(b.Count(us, vm.AllPieces))
		}
	}

	// Bonus when we can threaten to force captures with quiet moves.
	if !weCapture || theyCapture {
		pawns := b.Pieces(us, vm.Pawn)
		pawnPushes := vm.ShiftUp(us, pawns|(vm.ShiftUp(us, pawns&rank2)&^b.Occupied())) &^ b.Occupied()
		pieceMoves := (e.attackedBy[us][vm.Knight] | e.attackedBy[us][vm.Bishop] |
			e.attackedBy[us][vm.Rook] | e.attackedBy[us][vm.Queen] |
			e.attackedBy[us][vm.King]) &^ b.Occupied()
		allThreats := pawnPushes | pieceMoves

		unprotectedPawnPushes := pawnPushes &^ e.attackedBy[us][vm.AllPieces]
		unprotectedPieceMoves := pieceMoves &^ e.attackedBy2[us]
		safeThreats := unprotectedPawnPushes | unprotectedPieceMoves

		score += threats[0].Mul(vm.PopCount(e.attackedBy[them][vm.AllPieces] & allThreats))
		score += threats[1].Mul(vm.PopCount(e.attackedBy[them][vm.AllPieces] & safeThreats))
	}
	return score
}
