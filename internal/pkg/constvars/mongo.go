package constvars

const (
	MongoCollectionAvailabilities = "availabilities"
	MongoCollectionSlots          = "slots"
)
