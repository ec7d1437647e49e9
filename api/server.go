package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/matt-g-everett/mretx/host"
	"github.com/matt-g-everett/mretx/spin"
	"github.com/matt-g-everett/mretx/util"
)

type keyframeResponse struct {
	Time         float64       `json:"time"`
	Value        host.QuatJSON `json:"value"`
	AngleDegrees float64       `json:"angleDegrees"`
}

type sampleResponse struct {
	Time      float64       `json:"time"`
	LocalTime float64       `json:"localTime"`
	Value     host.QuatJSON `json:"value"`
}

type Api struct {
	mux *http.ServeMux
}

// NewApi creates an instance of an Api serving static files from dir.
func NewApi(dir string) *Api {
	a := new(Api)
	a.mux = http.NewServeMux()
	a.mux.HandleFunc("/api/keyframes", a.handleKeyframes)
	a.mux.HandleFunc("/api/keyframes/sample", a.handleSample)
	a.mux.Handle("/", http.FileServer(http.Dir(dir)))
	return a
}

// Handler returns the HTTP handler for the API.
func (a *Api) Handler() http.Handler {
	return a.mux
}

// Serve listens on addr until the server fails.
func (a *Api) Serve(addr string) error {
	log.Printf("Listening on %s...", addr)
	return http.ListenAndServe(addr, a.mux)
}

func parseSpin(r *http.Request) (float64, mgl64.Vec3, error) {
	q := r.URL.Query()
	duration, err := strconv.ParseFloat(q.Get("duration"), 64)
	if err != nil {
		return 0, mgl64.Vec3{}, fmt.Errorf("duration: %w", err)
	}
	axisName := q.Get("axis")
	if axisName == "" {
		axisName = "up"
	}
	axis, err := util.ParseAxis(axisName)
	if err != nil {
		return 0, mgl64.Vec3{}, err
	}
	return duration, axis, nil
}

func (a *Api) handleKeyframes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	duration, axis, err := parseSpin(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	keyframes, err := spin.GenerateSpinKeyframes(duration, axis)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out := make([]keyframeResponse, len(keyframes))
	for i, k := range keyframes {
		out[i] = keyframeResponse{
			Time:         k.Time,
			Value:        host.QuatToJSON(k.Value),
			AngleDegrees: 360 * float64(i) / float64(len(keyframes)-1),
		}
	}
	writeJSON(w, out)
}

func (a *Api) handleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	duration, axis, err := parseSpin(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	keyframes, err := spin.GenerateSpinKeyframes(duration, axis)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	tm, err := strconv.ParseFloat(q.Get("t"), 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("t: %v", err), http.StatusBadRequest)
		return
	}
	wrap := spin.Once
	if s := q.Get("wrap"); s != "" {
		if wrap, err = spin.ParseWrapMode(s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	easing := spin.Linear
	if s := q.Get("easing"); s != "" {
		if easing, err = spin.ParseEasing(s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	track := spin.Track{Target: spin.ActorPath("preview").LocalRotation(), Keyframes: keyframes, Easing: easing}
	local := wrap.LocalTime(tm, track.Length())
	writeJSON(w, sampleResponse{
		Time:      tm,
		LocalTime: local,
		Value:     host.QuatToJSON(track.Evaluate(local)),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Writing response: %v", err)
	}
}
