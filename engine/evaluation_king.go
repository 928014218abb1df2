package engine

import (
	vm "chess-variant-engine/varmg"
)

// evaluateKing scores shelter, storm, safe checks and the king danger
// formula for one color's king. Consumes the attacker counters the enemy
// piece sweep populated.
func (e *evaluation) evaluateKing(us vm.Color) Score {
	b := e.b
	them := us.Other()
	variant := b.Variant()

	ksq := b.KingSquare(us)
	if ksq == vm.NoSquare {
		return ScoreZero
	}

	// King shelter and enemy pawn storm.
	score := e.pe.KingSafety(b, us, ksq)

	// Main king safety evaluation: at least one attacker plus a queen, or
	// two attackers without one.
	if e.kingAttackersCount[them] > 1-b.Count(them, vm.Queen) {
		var weak uint64
		if b.IsAtomic() {
			weak = (e.attackedBy[them][vm.AllPieces] | (b.Pieces(them) ^ b.Pieces(them, vm.King))) &
				(e.attackedBy[us][vm.King] |
					(e.attackedBy[us][vm.Queen] &^ e.attackedBy2[us]) |
					^e.attackedBy[us][vm.AllPieces])
		} else {
			weak = e.attackedBy[them][vm.AllPieces] &
				^e.attackedBy2[us] &
				(e.attackedBy[us][vm.King] | e.attackedBy[us][vm.Queen] | ^e.attackedBy[us][vm.AllPieces])
		}

		var inHand uint64
		if b.IsHouse() && b.CountInHand(them, vm.Queen) > 0 {
			inHand = weak &^ b.Occupied()
		}

		kingDanger := 0
		var unsafeChecks uint64

		// Safe squares for enemy checks.
		safe := ^b.Pieces(them)
		safe &= ^e.attackedBy[us][vm.AllPieces] | (weak & e.attackedBy2[them])
		if b.IsAtomic() {
			safe |= e.attackedBy[us][vm.King]
		}

		// Squares defended by our queen or king only; drops there are safe
		// enough for the attacker.
		dqko := ^e.attackedBy2[us] & (e.attackedBy[us][vm.Queen] | e.attackedBy[us][vm.King])
		dropSafe := (safe | (e.attackedBy[them][vm.AllPieces] & dqko)) &^ b.Pieces(us)

		b1 := vm.RookAttacks(ksq, b.Occupied()^b.Pieces(us, vm.Queen))
		b2 := vm.BishopAttacks(ksq, b.Occupied()^b.Pieces(us, vm.Queen))

		// Enemy queen safe checks.
		if (b1|b2)&(inHand|e.attackedBy[them][vm.Queen])&safe&^e.attackedBy[us][vm.Queen] != 0 {
			kingDanger += QueenSafeCheck
		}

		// With a check already banked the attacker can spend material, so
		// every square not holding one of the attacker's own pieces counts
		// as safe from here on.
		if b.IsThreeCheck() && b.ChecksGiven(them) > 0 {
			safe = ^b.Pieces(them)
		}

		// Enemy rook checks.
		inHand = 0
		if b.IsHouse() && b.CountInHand(them, vm.Rook) > 0 {
			inHand = ^b.Occupied()
		}
		if b1&((e.attackedBy[them][vm.Rook]&safe)|(inHand&dropSafe)) != 0 {
			kingDanger += RookSafeCheck
		} else {
			unsafeChecks |= b1 & (e.attackedBy[them][vm.Rook] | inHand)
		}

		// Enemy bishop checks.
		inHand = 0
		if b.IsHouse() && b.CountInHand(them, vm.Bishop) > 0 {
			inHand = ^b.Occupied()
		}
		if b2&((e.attackedBy[them][vm.Bishop]&safe)|(inHand&dropSafe)) != 0 {
			kingDanger += BishopSafeCheck
		} else {
			unsafeChecks |= b2 & (e.attackedBy[them][vm.Bishop] | inHand)
		}

		// Enemy knight checks.
		knightChecks := vm.KnightMoves(ksq)
		inHand = 0
		if b.IsHouse() && b.CountInHand(them, vm.Knight) > 0 {
			inHand = ^b.Occupied()
		}
		if knightChecks&((e.attackedBy[them][vm.Knight]&safe)|(inHand&dropSafe)) != 0 {
			kingDanger += KnightSafeCheck
		} else {
			unsafeChecks |= knightChecks & (e.attackedBy[them][vm.Knight] | inHand)
		}

		// Unsafe or occupied checking squares still count while reachable.
		unsafeChecks &= e.mobilityArea[them]

		kdp := &KingDangerParams[variant]
		kingDanger += e.kingAttackersCount[them]*e.kingAttackersWeight[them] +
			kdp[0]*e.kingAdjacentZoneAttacksCount[them] +
			kdp[1]*vm.PopCount(e.kingRing[us]&weak) +
			kdp[2]*vm.PopCount(e.pinned[us]|unsafeChecks) +
			kdp[3]*b2i(b.Count(them, vm.Queen) == 0) +
			kdp[4]*score.Mg()/8 +
			kdp[5]

		if b.IsHouse() {
			kingDanger += KingDangerInHand[0] * b.CountInHand(them, vm.AllPieces)
			kingDanger += KingDangerInHand[vm.Pawn] * b.CountInHand(them, vm.Pawn)
			kingDanger += KingDangerInHand[vm.Knight] * b.CountInHand(them, vm.Knight)
			kingDanger += KingDangerInHand[vm.Bishop] * b.CountInHand(them, vm.Bishop)
			kingDanger += KingDangerInHand[vm.Rook] * b.CountInHand(them, vm.Rook)
			kingDanger += KingDangerInHand[vm.Queen] * b.CountInHand(them, vm.Queen)
		}

		if b.IsAtomic() {
			kingDanger += IndirectKingAttack *
				vm.PopCount(vm.KingMoves(ksq)&b.Pieces(us)&e.attackedBy[them][vm.AllPieces])
			score -= S(100, 100).Mul(vm.PopCount(e.attackedBy[us][vm.King] & b.Occupied()))
		}

		if kingDanger > 0 {
			if b.IsThreeCheck() {
				kingDanger = ThreeCheckKSFactors[b.ChecksGiven(them)] * kingDanger / 256
			}
			v := kingDanger * kingDanger / 4096
			if b.IsAtomic() && v > vm.QueenValueMg {
				v = vm.QueenValueMg
			}
			if b.IsHouse() {
				if us == b.SideToMove() {
					v -= v / 10
				}
				if v > vm.QueenValueMg {
					v = vm.QueenValueMg
				}
			}
			if b.IsThreeCheck() && v > vm.QueenValueMg {
				v = vm.QueenValueMg
			}
			score -= S(v, kingDanger/16+kdp[6]*v/256)
		}
	}

	// King tropism: enemy activity on the king's flank inside our camp.
	kf := vm.FileOf(ksq)
	flankAttacks := e.attackedBy[them][vm.AllPieces] & kingFlank[kf] & camp[us]

	// Double-count squares attacked twice and undefended by our pawns by
	// shifting into the empty half of the flank mask.
	var doubled uint64
	if us == vm.White {
		doubled = flankAttacks << 4
	} else {
		doubled = flankAttacks >> 4
	}
	flankAttacks = doubled | (flankAttacks & e.attackedBy2[them] &^ e.attackedBy[us][vm.Pawn])

	score -= CloseEnemies[variant].Mul(vm.PopCount(flankAttacks))

	// Penalty when our king sits on a flank with no pawns at all.
	if b.PiecesByType(vm.Pawn)&kingFlank[kf] == 0 {
		score -= PawnlessFlank
	}

	if e.trace != nil {
		e.trace.addColor(termKing, us, score)
	}
	return score
}
