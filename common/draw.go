package common

type Draw struct {
	Sequence uint   `json:"seq"`
	Word     uint64 `json:"word"`
}

// DrawBatch is what gets published to the draws exchange once a batch is verified.
type DrawBatch struct {
	SessionID uint   `json:"sessionId"`
	Kind      string `json:"kind"`
	Draws     []Draw `json:"draws"`
}
