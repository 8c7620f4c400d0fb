// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package kafkasink publishes committed graph.Graph edge mutations onto
// a Kafka topic. It lives in its own package so that importing the core
// graph package never pulls in the sarama client.
package kafkasink

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/Shopify/sarama"

	"github.com/aristanetworks/glog"
)

const recordSize = 8 + 8 + 4 + 1 // source, target, weight, deleted

// Sink publishes graph.EdgeSink notifications as compact fixed-width
// records, one Kafka message per edge mutation.
type Sink struct {
	topic    string
	producer sarama.AsyncProducer
}

// New connects to the Kafka cluster at addrs and returns a Sink that
// publishes to topic.
func New(addrs []string, topic string) (*Sink, error) {
	cfg := sarama.NewConfig()
	if hostname, err := os.Hostname(); err == nil {
		cfg.ClientID = "tvgraph-" + hostname
	}
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Return.Successes = false
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(addrs, cfg)
	if err != nil {
		return nil, err
	}
	s := &Sink{topic: topic, producer: producer}
	go s.drainErrors()
	return s, nil
}

func (s *Sink) drainErrors() {
	for err := range s.producer.Errors() {
		glog.Errorf("tvgraph: kafka edge sink: %v", err)
	}
}

// encodeRecord lays out one edge mutation as fixed-width little-endian
// fields: source, target, weight, then a one-byte deleted flag.
func encodeRecord(source, target uint64, weight float32, deleted bool) []byte {
	buf := make([]byte, recordSize)
	binary.LittleEndian.PutUint64(buf[0:8], source)
	binary.LittleEndian.PutUint64(buf[8:16], target)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(weight))
	if deleted {
		buf[20] = 1
	}
	return buf
}

// OnEdge implements graph.EdgeSink. It never blocks: under producer
// backpressure the record is dropped and logged rather than stalling
// the caller's mutation.
func (s *Sink) OnEdge(source, target uint64, weight float32, deleted bool) {
	buf := encodeRecord(source, target, weight, deleted)
	msg := &sarama.ProducerMessage{Topic: s.topic, Value: sarama.ByteEncoder(buf)}
	select {
	case s.producer.Input() <- msg:
	default:
		glog.V(3).Infof("tvgraph: kafka edge sink: dropped edge (%d -> %d) under backpressure", source, target)
	}
}

// Close flushes and releases the underlying producer.
func (s *Sink) Close() error {
	return s.producer.Close()
}
