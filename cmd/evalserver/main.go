package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"chess-variant-engine/engine"
	vm "chess-variant-engine/varmg"
)

// evalserver exposes the evaluator over HTTP for local analysis tooling:
//
//	GET /eval?fen=...&variant=standard   -> JSON {fen, variant, score}
//	GET /trace?fen=...&variant=standard  -> the plain-text trace table
func main() {
	addr := flag.String("addr", "127.0.0.1:8780", "listen address")
	flag.Parse()

	r := mux.NewRouter()
	r.HandleFunc("/eval", handleEval).Methods("GET")
	r.HandleFunc("/trace", handleTrace).Methods("GET")

	log.Printf("evalserver listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}

func boardFromRequest(w http.ResponseWriter, req *http.Request) *vm.Board {
	fen := req.URL.Query().Get("fen")
	if fen == "" {
		fen = vm.FENStartPos
	}
	name := req.URL.Query().Get("variant")
	if name == "" {
		name = "standard"
	}
	variant, ok := vm.VariantFromName(name)
	if !ok {
		http.Error(w, "unknown variant", http.StatusBadRequest)
		return nil
	}
	b, err := vm.ParseFEN(fen, variant)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	return b
}

func handleEval(w http.ResponseWriter, req *http.Request) {
	b := boardFromRequest(w, req)
	if b == nil {
		return
	}
	resp := struct {
		FEN     string `json:"fen"`
		Variant string `json:"variant"`
		Score   int    `json:"score"`
	}{b.ToFEN(), b.Variant().String(), engine.Evaluate(b)}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func handleTrace(w http.ResponseWriter, req *http.Request) {
	b := boardFromRequest(w, req)
	if b == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(engine.Trace(b)))
}
