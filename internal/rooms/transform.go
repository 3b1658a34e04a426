package rooms

// Transform is the pose of one tracked body part: a position and a rotation
// quaternion. The server stores and forwards these values uninterpreted; it
// does not normalize or validate the quaternion.
type Transform struct {
	Pos [3]float64 `json:"pos"`
	Rot [4]float64 `json:"rot"`
}

// TransformSet is the full pose of a participant.
type TransformSet struct {
	Head      Transform `json:"head"`
	LeftHand  Transform `json:"leftHand"`
	RightHand Transform `json:"rightHand"`
}

// TransformUpdate carries the optional parts of a transform-update event.
// A nil part leaves the stored value untouched; a present part replaces the
// stored one wholesale.
type TransformUpdate struct {
	Head      *Transform `json:"head"`
	LeftHand  *Transform `json:"leftHand"`
	RightHand *Transform `json:"rightHand"`
}

var identityRot = [4]float64{0, 0, 0, 1}

// DefaultTransforms places a new participant at the origin at standing eye
// height, hands at the origin.
func DefaultTransforms() TransformSet {
	return TransformSet{
		Head:      Transform{Pos: [3]float64{0, 1.6, 0}, Rot: identityRot},
		LeftHand:  Transform{Rot: identityRot},
		RightHand: Transform{Rot: identityRot},
	}
}
