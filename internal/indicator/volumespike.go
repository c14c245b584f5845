package indicator

// VolumeResult is returned on the tick that closes a 1-second bucket, once
// at least 5 completed buckets of history exist.
type VolumeResult struct {
	Symbol         string
	CurrentVolume  float64
	AverageVolume  float64
	Multiplier     float64
	IsSpike        bool
}

type volumeState struct {
	lastBucket int64
	current    float64
	history    []float64 // bounded to WindowSize, oldest first
}

// VolumeSpikeBySecond aggregates tick volume into 1-second buckets and
// flags a bucket whose completed sum is an outlier multiple of the trailing
// average. Emission happens on the transition tick, the first tick of a
// newer bucket, and evaluates the bucket that tick just closed; ticks that
// land in the current bucket never emit.
//
// Not safe for concurrent use — single-writer per symbol.
type VolumeSpikeBySecond struct {
	WindowSize int
	Threshold  float64

	states map[string]*volumeState
}

func NewVolumeSpikeBySecond(windowSize int, threshold float64) *VolumeSpikeBySecond {
	if threshold == 0 {
		threshold = 5
	}
	return &VolumeSpikeBySecond{
		WindowSize: windowSize,
		Threshold:  threshold,
		states:     make(map[string]*volumeState),
	}
}

func (v *VolumeSpikeBySecond) Update(symbol string, volume float64, eventMs int64) (VolumeResult, bool) {
	bucket := eventMs / 1000

	st, ok := v.states[symbol]
	if !ok {
		v.states[symbol] = &volumeState{lastBucket: bucket, current: volume}
		return VolumeResult{}, false
	}

	if bucket == st.lastBucket {
		st.current += volume
		return VolumeResult{}, false
	}

	if bucket < st.lastBucket {
		// Out-of-order tick; ignore rather than corrupt the running bucket.
		return VolumeResult{}, false
	}

	// New bucket: close out the previous one.
	completed := st.current
	st.history = append(st.history, completed)
	if len(st.history) > v.WindowSize {
		st.history = st.history[len(st.history)-v.WindowSize:]
	}
	st.lastBucket = bucket
	st.current = volume

	if len(st.history) < 5 {
		return VolumeResult{}, false
	}

	var avg float64
	if len(st.history) == 1 {
		avg = st.history[0]
	} else {
		trailing := st.history[:len(st.history)-1]
		var sum float64
		for _, h := range trailing {
			sum += h
		}
		avg = sum / float64(len(trailing))
	}

	var multiplier float64
	if avg > 0 {
		multiplier = completed / avg
	}

	return VolumeResult{
		Symbol:        symbol,
		CurrentVolume: completed,
		AverageVolume: avg,
		Multiplier:    multiplier,
		IsSpike:       multiplier > v.Threshold,
	}, true
}
