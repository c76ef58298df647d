package codec

// encoderPriority ranks the known video codec names from most to least
// preferred. A name absent from this table is an unsupported encoder and
// is dropped by RankEncoders.
var encoderPriority = map[string]int{
	"AV1":  0,
	"H265": 1,
	"VP9":  2,
	"H264": 3,
	"VP8":  4,
}

// RankEncoders filters formats to the known, platform-supported encoder
// names and orders them AV1 > H265 > VP9 > H264 > VP8, ties broken by
// name then parameters.
func RankEncoders(formats []VideoFormat) []VideoFormat {
	ranked := make([]VideoFormat, 0, len(formats))
	for _, f := range formats {
		if _, ok := encoderPriority[f.Name]; ok {
			ranked = append(ranked, f)
		}
	}
	sortByPriority(ranked)
	return ranked
}

func sortByPriority(formats []VideoFormat) {
	// Insertion sort: the input is small (a handful of codecs) and this
	// keeps the comparator simple to read.
	for i := 1; i < len(formats); i++ {
		for j := i; j > 0 && less(formats[j], formats[j-1]); j-- {
			formats[j], formats[j-1] = formats[j-1], formats[j]
		}
	}
}

func less(a, b VideoFormat) bool {
	pa, pb := encoderPriority[a.Name], encoderPriority[b.Name]
	if pa != pb {
		return pa < pb
	}
	return a.sortKey() < b.sortKey()
}

// BuildAdvertisement produces the formats list and encodersCount for a
// VideoFormatsMessage: ranked, filtered encoders first, followed by any
// decoder-only formats not already present among the encoders.
func BuildAdvertisement(encoders, decoders []VideoFormat) (formats []VideoFormat, encodersCount int) {
	ranked := RankEncoders(encoders)
	formats = append(formats, ranked...)
	encodersCount = len(ranked)

	for _, d := range decoders {
		if indexOf(formats, d) == -1 {
			formats = append(formats, d)
		}
	}
	return formats, encodersCount
}

// ComputeCommonFormats intersects the local encoders/decoders with a
// peer's advertised formats, returning the sorted union used to build
// CommonCodecs plus the index (or -1) of the highest-ranked local encoder
// that is present in that result.
func ComputeCommonFormats(localEncoders, localDecoders, peerFormats []VideoFormat) (common []VideoFormat, myEncoderIndex int) {
	ranked := RankEncoders(localEncoders)
	covered := make([]bool, len(peerFormats))

	for _, enc := range ranked {
		for i, peer := range peerFormats {
			if covered[i] {
				continue
			}
			if enc.Equal(peer) {
				if indexOf(common, enc) == -1 {
					common = append(common, enc)
				}
				covered[i] = true
				break
			}
		}
	}

	for i, peer := range peerFormats {
		if covered[i] {
			continue
		}
		for _, dec := range localDecoders {
			if dec.Equal(peer) {
				if indexOf(common, peer) == -1 {
					common = append(common, peer)
				}
				break
			}
		}
	}

	SortFormats(common)

	myEncoderIndex = -1
	for _, enc := range ranked {
		if i := indexOf(common, enc); i != -1 {
			myEncoderIndex = i
			break
		}
	}
	return common, myEncoderIndex
}

// DynamicPayloadTypeMin and DynamicPayloadTypeMax bound the payload-type
// space AssignPayloadTypesAndDefaultCodecs allocates from.
const (
	DynamicPayloadTypeMin = 96
	DynamicPayloadTypeMax = 127
)

// FlexFECRepairWindow is the advertised (but unused) repair-window
// parameter value, in microseconds.
const FlexFECRepairWindow = "10000000"

// Codec is one assigned payload-type entry: either a real media codec
// (and, unless it is RED/ULPFEC/FlexFEC, the RTX pair following it) or
// one of the three FEC virtual entries.
type Codec struct {
	PayloadType int
	Name        string
	Parameters  []Parameter
	Feedback    []string

	// IsRTX marks this entry as the retransmission pair of the codec at
	// AssociatedPayloadType.
	IsRTX                 bool
	AssociatedPayloadType int
}

var defaultFeedback = []string{"goog-remb", "transport-cc", "ccm fir", "nack", "nack pli"}

type fecEntry struct {
	name       string
	parameters []Parameter
	feedback   []string
}

// AssignPayloadTypesAndDefaultCodecs walks commonFormats in order,
// allocating a dynamic payload type and default RTCP feedback
// parameters to each, followed by its RTX pair, then appends the RED,
// ULPFEC, and FlexFEC virtual entries (none of which get an RTX pair).
// Allocation stops as soon as the payload-type space is exhausted,
// returning only what fit.
func AssignPayloadTypesAndDefaultCodecs(commonFormats []VideoFormat) []Codec {
	if len(commonFormats) == 0 {
		return nil
	}

	next := DynamicPayloadTypeMin
	var out []Codec

	allocate := func(name string, parameters []Parameter, feedback []string) (int, bool) {
		if next > DynamicPayloadTypeMax {
			return 0, false
		}
		pt := next
		next++
		out = append(out, Codec{PayloadType: pt, Name: name, Parameters: parameters, Feedback: feedback})
		return pt, true
	}

	for _, f := range commonFormats {
		pt, ok := allocate(f.Name, f.Parameters, defaultFeedback)
		if !ok {
			return out
		}
		if _, ok := allocate("rtx", nil, nil); !ok {
			return out
		}
		out[len(out)-1].IsRTX = true
		out[len(out)-1].AssociatedPayloadType = pt
	}

	fecEntries := []fecEntry{
		{name: "red"},
		{name: "ulpfec"},
		{name: "flexfec-03", parameters: []Parameter{{Key: "repair-window", Value: FlexFECRepairWindow}}, feedback: []string{"transport-cc"}},
	}
	for _, e := range fecEntries {
		if _, ok := allocate(e.name, e.parameters, e.feedback); !ok {
			return out
		}
	}

	return out
}
