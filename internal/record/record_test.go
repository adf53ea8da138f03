package record

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/piflow/internal/model"
)

func TestDecodeFallsBackToDefault(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "{not json", `{"maxDigits":-4}`, `[1,2,3]`} {
		pb, ok := Decode([]byte(raw))
		if ok {
			t.Fatalf("expected %q to be treated as absent", raw)
		}
		if pb.MaxDigits != 0 || pb.TotalSessions != 0 || pb.PositionErrors == nil || pb.DigitConfusion == nil {
			t.Fatalf("expected default record for %q, got %+v", raw, pb)
		}
	}
}

func TestDecodePartialRecord(t *testing.T) {
	pb, ok := Decode([]byte(`{"maxDigits":12,"totalSessions":3,"digitConfusion":{"4":{"5":2},"x":{"1":1}}}`))
	if !ok {
		t.Fatalf("expected record to decode")
	}
	if pb.MaxDigits != 12 || pb.TotalSessions != 3 {
		t.Fatalf("unexpected record %+v", pb)
	}
	if pb.PositionErrors == nil {
		t.Fatalf("expected position errors map to be initialized")
	}
	if Confusions(pb, '4', '5') != 2 {
		t.Fatalf("expected confusion count preserved")
	}
	if _, ok := pb.DigitConfusion["x"]; ok {
		t.Fatalf("expected non-digit confusion key to be dropped")
	}
}

func TestEncodeUsesStorageFieldNames(t *testing.T) {
	pb := Default()
	pb.MaxDigits = 7
	pb.PositionErrors[3] = PositionError{Count: 1, Attempts: 2, ErrorRate: 0.5}
	raw, err := Encode(pb)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, field := range []string{`"maxDigits":7`, `"totalSessions":0`, `"totalDigitsTyped":0`, `"positionErrors":{"3":`, `"digitConfusion":{}`} {
		if !strings.Contains(string(raw), field) {
			t.Fatalf("expected %s in %s", field, raw)
		}
	}
	decoded, ok := Decode(raw)
	if !ok || decoded.PositionErrors[3].Attempts != 2 {
		t.Fatalf("unexpected decoded record %+v", decoded)
	}
}

func TestApplySessionUpdatesBest(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	pb := ApplySession(Default(), model.SessionSummary{DigitsReached: 7}, now)
	if pb.MaxDigits != 7 || pb.TotalSessions != 1 || pb.TotalDigitsTyped != 7 {
		t.Fatalf("unexpected record %+v", pb)
	}
	if pb.MaxDigitsDate != now.UnixMilli() {
		t.Fatalf("expected best date to be set")
	}

	later := now.Add(time.Hour)
	pb = ApplySession(pb, model.SessionSummary{DigitsReached: 4}, later)
	if pb.MaxDigits != 7 || pb.TotalSessions != 2 || pb.TotalDigitsTyped != 11 {
		t.Fatalf("unexpected record after shorter session %+v", pb)
	}
	if !BestDate(pb).Equal(now) {
		t.Fatalf("expected best date unchanged, got %s", BestDate(pb))
	}
}

func TestApplyValidationCountsMistakes(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	pb := Default()
	pb = ApplyValidation(pb, model.ValidationResult{Accepted: true, Correct: false, Position: 2, Input: '2', Expected: '1'}, now)
	pb = ApplyValidation(pb, model.ValidationResult{Accepted: true, Correct: true, Position: 2, Input: '1', Expected: '1'}, now)

	entry := pb.PositionErrors[2]
	if entry.Count != 1 || entry.Attempts != 2 {
		t.Fatalf("unexpected position entry %+v", entry)
	}
	if entry.ErrorRate != 0.5 {
		t.Fatalf("expected error rate 0.5, got %v", entry.ErrorRate)
	}
	if entry.LastError != now.UnixMilli() {
		t.Fatalf("expected last error timestamp")
	}
	if Confusions(pb, '1', '2') != 1 {
		t.Fatalf("expected confusion recorded")
	}
}

func TestApplyValidationIgnoresRejected(t *testing.T) {
	pb := ApplyValidation(Default(), model.ValidationResult{}, time.Now())
	if len(pb.PositionErrors) != 0 {
		t.Fatalf("expected rejected input to be ignored")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	base := Default()
	_ = ApplyValidation(base, model.ValidationResult{Accepted: true, Position: 0, Input: '3', Expected: '1'}, time.Now())
	if len(base.PositionErrors) != 0 || len(base.DigitConfusion) != 0 {
		t.Fatalf("expected input record unchanged")
	}
}
