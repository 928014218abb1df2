package engine

import (
	vm "chess-variant-engine/varmg"
)

// evaluatePieces sweeps every piece of one color and type, building the
// attack maps and scoring mobility, outposts, file play and the other
// per-piece terms. Must run Knight, Bishop, Rook, Queen in that order for
// both colors before any consumer of the attack maps.
func (e *evaluation) evaluatePieces(us vm.Color, pt vm.PieceType) Score {
	b := e.b
	them := us.Other()
	variant := b.Variant()

	var outpostRanks uint64
	if us == vm.White {
		outpostRanks = vm.Rank4BB | vm.Rank5BB | vm.Rank6BB
	} else {
		outpostRanks = vm.Rank5BB | vm.Rank4BB | vm.Rank3BB
	}

	score := ScoreZero
	e.attackedBy[us][pt] = 0
	if pt == vm.Queen {
		e.attackedBy[us][vm.QueenDiagonal] = 0
	}

	ksq := b.KingSquare(us)

	for pieces := b.Pieces(us, pt); pieces != 0; {
		s := vm.PopLsb(&pieces)

		// Attack set, with x-rays through queens for bishops and through
		// own rook batteries for rooks.
		var attacks uint64
		switch pt {
		case vm.Bishop:
			attacks = vm.BishopAttacks(s, b.Occupied()^b.PiecesByType(vm.Queen))
		case vm.Rook:
			attacks = vm.RookAttacks(s, b.Occupied()^b.PiecesByType(vm.Queen)^b.Pieces(us, vm.Rook))
		case vm.Knight:
			attacks = vm.KnightMoves(s)
		default:
			attacks = vm.QueenAttacks(s, b.Occupied())
		}

		if b.IsGrid() {
			attacks &^= b.GridBB(s)
		}
		if e.pinned[us]&vm.SquareBB[s] != 0 && ksq != vm.NoSquare {
			attacks &= vm.LineBB(ksq, s)
		}

		e.attackedBy2[us] |= e.attackedBy[us][vm.AllPieces] & attacks
		e.attackedBy[us][pt] |= attacks
		e.attackedBy[us][vm.AllPieces] |= attacks

		if pt == vm.Queen {
			e.attackedBy[us][vm.QueenDiagonal] |= attacks & vm.PseudoAttacks(vm.Bishop, s)
		}

		if attacks&e.kingRing[them] != 0 {
			e.kingAttackersCount[us]++
			e.kingAttackersWeight[us] += KingAttackWeights[variant][pt]
			e.kingAdjacentZoneAttacksCount[us] += vm.PopCount(attacks & e.attackedBy[them][vm.King])
		}

		mob := vm.PopCount(attacks & e.mobilityArea[us])
		e.mobility[us] += MobilityBonus[variant][pt-2][mob]

		if b.IsAnti() {
			continue
		}

		if !(b.IsHorde() && b.IsHordeColor(us)) && ksq != vm.NoSquare {
			score += KingProtector[pt-2].Mul(vm.Distance(s, ksq))
		}

		if pt == vm.Bishop || pt == vm.Knight {
			isBishop := b2i(pt == vm.Bishop)

			// Outposts: squares the enemy pawns can never contest.
			outposts := outpostRanks &^ e.pe.PawnAttacksSpan(them)
			if outposts&vm.SquareBB[s] != 0 {
				supported := b2i(e.attackedBy[us][vm.Pawn]&vm.SquareBB[s] != 0)
				score += Outpost[isBishop][supported].Mul(2)
			} else {
				reachable := outposts & attacks &^ b.Pieces(us)
				if reachable != 0 {
					supported := b2i(e.attackedBy[us][vm.Pawn]&reachable != 0)
					score += Outpost[isBishop][supported]
				}
			}

			if vm.RelativeRank(us, s) < 4 {
				front := s + vm.Square(vm.PawnPush(us))
				if b.PiecesByType(vm.Pawn)&vm.SquareBB[front] != 0 {
					score += MinorBehindPawn
				}
			}

			if pt == vm.Bishop {
				score -= BishopPawns.Mul(e.pe.PawnsOnSameColorSquares(us, s))

				seesCenter := (centerBB & (vm.BishopAttacks(s, b.PiecesByType(vm.Pawn)) | vm.SquareBB[s]))
				if vm.MoreThanOne(seesCenter) {
					score += LongRangedBishop
				}
			}

			// A cornered bishop blocked by its own pawn is crippling in
			// Chess960 starting setups.
			if pt == vm.Bishop && b.IsChess960() &&
				(s == vm.RelativeSquare(us, vm.SqA1) || s == vm.RelativeSquare(us, vm.SqH1)) {
				d := vm.PawnPush(us)
				if vm.FileOf(s) == 0 {
					d++
				} else {
					d--
				}
				blocker := s + vm.Square(d)
				if b.PieceAt(blocker) == vm.PieceFromType(us, vm.Pawn) {
					switch {
					case !b.Empty(blocker + vm.Square(vm.PawnPush(us))):
						score -= TrappedBishopA1H1.Mul(4)
					case b.PieceAt(blocker+vm.Square(d)) == vm.PieceFromType(us, vm.Pawn):
						score -= TrappedBishopA1H1.Mul(2)
					default:
						score -= TrappedBishopA1H1
					}
				}
			}
		}

		if pt == vm.Rook {
			if vm.RelativeRank(us, s) >= 4 {
				score += RookOnPawn.Mul(vm.PopCount(b.Pieces(them, vm.Pawn) & vm.PseudoAttacks(vm.Rook, s)))
			}

			if e.pe.SemiopenFile(us, vm.FileOf(s)) {
				score += RookOnFile[b2i(e.pe.SemiopenFile(them, vm.FileOf(s)))]
			} else if mob <= 3 && ksq != vm.NoSquare {
				kf := vm.FileOf(ksq)
				if (kf < 4) == (vm.FileOf(s) < kf) &&
					!e.pe.SemiopenSide(us, kf, vm.FileOf(s) < kf) {
					factor := 1
					if !b.CanCastle(us) {
						factor = 2
					}
					score -= (TrappedRook - S(mob*22, 0)).Mul(factor)
				}
			}
		}

		if pt == vm.Queen {
			if blockers, _ := b.SliderBlockers(b.Pieces(them, vm.Rook, vm.Bishop), s); blockers != 0 {
				score -= WeakQueen
			}
		}
	}

	if e.trace != nil {
		e.trace.addColor(term(pt), us, score)
	}
	return score
}
