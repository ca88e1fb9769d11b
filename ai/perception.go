package ai

import "github.com/milk9111/pursuit/common"

// DetectionCapsule builds the sensing volume: it starts ForwardOffset ahead
// of the pawn and extends 2*HalfLength along forward.
func DetectionCapsule(location, forward common.Vec3, cfg DetectionConfig) Capsule {
	start := location.Add(forward.Scale(cfg.ForwardOffset))
	end := start.Add(forward.Scale(cfg.HalfLength * 2))
	return Capsule{Start: start, End: end, Radius: cfg.Radius}
}

// HighestPriorityHit reduces a sweep result: the first player hit wins
// outright, otherwise the last resource hit, otherwise none.
func HighestPriorityHit(hits []Hit) DetectionHit {
	var out DetectionHit
	for _, h := range hits {
		switch h.Category {
		case CategoryPlayer:
			return DetectionHit{Kind: HitPlayer, Actor: h.Actor, Location: h.Location}
		case CategoryResource:
			out = DetectionHit{Kind: HitResource, Actor: h.Actor, Location: h.Location}
		}
	}
	return out
}
