package engine

import (
	vm "chess-variant-engine/varmg"
)

// evaluatePassedPawns scores passed and candidate passed pawns. Racing
// Kings replaces the whole term with a king-race formula; King of the Hill
// adds its center-proximity bonuses here.
func (e *evaluation) evaluatePassedPawns(us vm.Color) Score {
	b := e.b
	them := us.Other()
	up := vm.Square(vm.PawnPush(us))

	score := ScoreZero

	if b.IsRace() {
		ksq := b.KingSquare(us)
		if ksq != vm.NoSquare {
			// Ranks ahead whose approach ring is not clean slow the king
			// down; the bonus decays with that effective distance.
			s := 7 - vm.RankOf(ksq)
			kr := vm.RankOf(ksq)
			for r := kr + 1; r <= 7; r++ {
				ring := vm.RankBB[r] & vm.DistanceRing(ksq, r-kr) &
					^e.attackedBy[them][vm.AllPieces] & ^b.Pieces(us)
				if ring == 0 {
					s++
				}
			}
			score = KingRaceBonus[minInt(s, 7)]
		}
		if e.trace != nil {
			e.trace.addColor(termPassed, us, score)
		}
		return score
	}

	if b.IsKoth() {
		ksq := b.KingSquare(us)
		centers := [4]vm.Square{vm.SqE4, vm.SqD4, vm.SqD5, vm.SqE5}
		for _, c := range centers {
			dist := vm.PopCount(b.AttackersTo(c, b.Occupied())&b.Pieces(them)) +
				vm.PopCount(b.Pieces(us)&vm.SquareBB[c])
			if ksq != vm.NoSquare {
				dist += vm.Distance(ksq, c)
			} else {
				dist += 7
			}
			score += KothDistanceBonus[minInt(maxInt(dist-1, 0), 5)]
		}
	}

	for passed := e.pe.PassedPawns(us); passed != 0; {
		s := vm.PopLsb(&passed)

		// Enemy presence or attacks anywhere on the promotion path.
		hinder := vm.ForwardFile(us, s) & (e.attackedBy[them][vm.AllPieces] | b.Pieces(them))
		score -= HinderPassedPawn.Mul(vm.PopCount(hinder))

		r := maxInt(vm.RelativeRank(us, s)-1, 0)
		rr := r * (r - 1)

		mbonus := Passed[b.Variant()][0][minInt(r, 5)]
		ebonus := Passed[b.Variant()][1][minInt(r, 5)]

		if rr != 0 {
			blockSq := s + up
			themKsq := b.KingSquare(them)
			usKsq := b.KingSquare(us)

			switch {
			case b.IsHorde():
				if b.IsHordeColor(us) {
					// The horde has no king; assume a king distance of
					// approximately 5 for the missing term.
					if themKsq != vm.NoSquare {
						ebonus += vm.Distance(themKsq, blockSq)*5*rr - 10*rr
					}
				} else if usKsq != vm.NoSquare {
					ebonus += 25*rr - vm.Distance(usKsq, blockSq)*2*rr
				}
			case b.IsAnti():
				// No kings worth tracking.
			case b.IsAtomic():
				if themKsq != vm.NoSquare {
					ebonus += vm.Distance(themKsq, blockSq) * 5 * rr
				}
			default:
				ebonus += vm.Distance(themKsq, blockSq)*5*rr -
					vm.Distance(usKsq, blockSq)*2*rr

				// If blockSq is not the queening square, consider a second
				// push as well.
				if vm.RelativeRank(us, blockSq) != 7 {
					ebonus -= vm.Distance(usKsq, blockSq+up) * rr
				}
			}

			if b.Empty(blockSq) {
				squaresToQueen := vm.ForwardFile(us, s)
				defendedSquares := squaresToQueen
				unsafeSquares := squaresToQueen

				// A rook or queen on the file behind the pawn covers or
				// contests the whole path.
				behind := vm.ForwardFile(them, s) & b.PiecesByType(vm.Rook, vm.Queen) &
					vm.RookAttacks(s, b.Occupied())

				if b.Pieces(us)&behind == 0 {
					defendedSquares &= e.attackedBy[us][vm.AllPieces]
				}
				if b.Pieces(them)&behind == 0 {
					unsafeSquares &= e.attackedBy[them][vm.AllPieces] | b.Pieces(them)
				}

				k := 0
				switch {
				case unsafeSquares == 0:
					k = 18
				case unsafeSquares&vm.SquareBB[blockSq] == 0:
					k = 8
				}
				if defendedSquares == squaresToQueen {
					k += 6
				} else if defendedSquares&vm.SquareBB[blockSq] != 0 {
					k += 4
				}
				mbonus += k * rr
				ebonus += k * rr
			} else if b.Pieces(us)&vm.SquareBB[blockSq] != 0 {
				mbonus += rr + r*2
				ebonus += rr + r*2
			}
		}

		// Candidate passers needing more than one push, or with a pawn in
		// front, score half.
		if !b.PawnPassed(us, s+up) || b.PiecesByType(vm.Pawn)&vm.ForwardFile(us, s) != 0 {
			mbonus /= 2
			ebonus /= 2
		}

		score += S(mbonus, ebonus) + PassedFile[vm.FileOf(s)]
	}

	if e.trace != nil {
		e.trace.addColor(termPassed, us, score)
	}
	return score
}
