package mpegts

import (
	"testing"

	"github.com/asticode/go-astits"
)

func TestPickKLVStreamMetadata(t *testing.T) {
	streams := []*astits.PMTElementaryStream{
		{ElementaryPID: 256, StreamType: astits.StreamTypeH264Video},
		{ElementaryPID: 258, StreamType: astits.StreamTypeMetadata},
	}
	pid, ok := PickKLVStream(streams)
	if !ok || pid != 258 {
		t.Fatalf("pid = %d, ok = %v", pid, ok)
	}
}

func TestPickKLVStreamRegistration(t *testing.T) {
	streams := []*astits.PMTElementaryStream{
		{ElementaryPID: 256, StreamType: astits.StreamTypeH264Video},
		{
			ElementaryPID: 260,
			StreamType:    astits.StreamTypePrivateData,
			ElementaryStreamDescriptors: []*astits.Descriptor{
				{Registration: &astits.DescriptorRegistration{FormatIdentifier: formatIdentifierKLVA}},
			},
		},
	}
	pid, ok := PickKLVStream(streams)
	if !ok || pid != 260 {
		t.Fatalf("pid = %d, ok = %v", pid, ok)
	}
}

func TestPickKLVStreamNone(t *testing.T) {
	streams := []*astits.PMTElementaryStream{
		{ElementaryPID: 256, StreamType: astits.StreamTypeH264Video},
	}
	if _, ok := PickKLVStream(streams); ok {
		t.Fatal("found a KLV stream where none exists")
	}
}
