package model

const (
	KindPickup     = "pickup"
	KindCompletion = "completion"
)

func IsValidKind(kind string) bool {
	return kind == KindPickup || kind == KindCompletion
}
