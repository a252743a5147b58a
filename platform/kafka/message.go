package kafka

import "time"

// Message is a Kafka record. Producers ignore the delivery fields
// (Topic, Partition, Offset and timestamps); consumers fill them in.
type Message struct {
	Headers        map[string][]byte
	Timestamp      time.Time
	BlockTimestamp time.Time

	Key       []byte
	Value     []byte
	Topic     string
	Partition int32
	Offset    int64
}
