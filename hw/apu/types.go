package apu

type Channel uint8

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise

	numChannels
)

func (ch Channel) String() string {
	switch ch {
	case Square1:
		return "square1"
	case Square2:
		return "square2"
	case Triangle:
		return "triangle"
	case Noise:
		return "noise"
	}
	return "unknown"
}

type mixer interface {
	addDelta(ch Channel, time uint32, delta int16)
}

type frameType uint8

const (
	noFrame frameType = iota
	quarterFrame
	halfFrame
)
