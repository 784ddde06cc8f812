package jsonrepair

import "testing"

func TestParse_DirectJSON(t *testing.T) {
	obj := Parse(`{"a":1}`)
	if obj == nil {
		t.Fatal("expected object")
	}
	if v, ok := Int(obj["a"]); !ok || v != 1 {
		t.Fatalf("unexpected value: %v", obj["a"])
	}
}

func TestParse_FencedJSON(t *testing.T) {
	raw := "```json\n{\"a\":1}\n```"
	if tryObject(raw) != nil {
		t.Fatal("fenced input must not parse directly")
	}
	obj := Parse(raw)
	if obj == nil {
		t.Fatal("expected object after fence stripping")
	}
	if v, ok := Int(obj["a"]); !ok || v != 1 {
		t.Fatalf("unexpected value: %v", obj["a"])
	}
}

func TestParse_UntaggedFence(t *testing.T) {
	obj := Parse("```\n{\"ok\":true}\n```")
	if obj == nil {
		t.Fatal("expected object")
	}
	if b, _ := obj["ok"].(bool); !b {
		t.Fatalf("unexpected value: %v", obj["ok"])
	}
}

func TestParse_BraceExtraction(t *testing.T) {
	raw := `Sure! Here is the result: {"a":1} Hope that helps.`
	if tryObject(raw) != nil || tryObject(StripFence(raw)) != nil {
		t.Fatal("input must not parse before brace extraction")
	}
	obj := Parse(raw)
	if obj == nil {
		t.Fatal("expected object via brace extraction")
	}
	if v, ok := Int(obj["a"]); !ok || v != 1 {
		t.Fatalf("unexpected value: %v", obj["a"])
	}
}

func TestParse_TrailingCommaRepair(t *testing.T) {
	raw := `{"a":1,}`
	if span, ok := braceSpan(raw); !ok || tryObject(span) != nil {
		t.Fatal("input must not parse before repair")
	}
	obj := Parse(raw)
	if obj == nil {
		t.Fatal("expected object via trailing-comma repair")
	}
	if v, ok := Int(obj["a"]); !ok || v != 1 {
		t.Fatalf("unexpected value: %v", obj["a"])
	}
}

func TestParse_TrailingCommaInArray(t *testing.T) {
	obj := Parse(`{"items":[1,2,3,],}`)
	if obj == nil {
		t.Fatal("expected object")
	}
	if items := Slice(obj["items"]); len(items) != 3 {
		t.Fatalf("unexpected items: %v", obj["items"])
	}
}

func TestParse_UnescapedQuoteRepair(t *testing.T) {
	raw := `{"explanation": "requires "hands-on" practice"}`
	obj := Parse(raw)
	if obj == nil {
		t.Fatal("expected object via quote repair")
	}
	if got := Str(obj["explanation"]); got != `requires "hands-on" practice` {
		t.Fatalf("unexpected explanation: %q", got)
	}
}

func TestParse_TotalFailure(t *testing.T) {
	if obj := Parse("not json at all"); obj != nil {
		t.Fatalf("expected nil, got %v", obj)
	}
	if obj := Parse(""); obj != nil {
		t.Fatalf("expected nil for empty input, got %v", obj)
	}
	if obj := Parse("[1,2,3]"); obj != nil {
		t.Fatalf("expected nil for non-object JSON, got %v", obj)
	}
}

func TestStripFence_PassThrough(t *testing.T) {
	if got := StripFence(`{"a":1}`); got != `{"a":1}` {
		t.Fatalf("unfenced text must pass through, got %q", got)
	}
}

func TestCoercions(t *testing.T) {
	if v, ok := Int(float64(4.6)); !ok || v != 5 {
		t.Fatalf("Int(4.6) = %d, %v", v, ok)
	}
	if v, ok := Int("3"); !ok || v != 3 {
		t.Fatalf("Int(\"3\") = %d, %v", v, ok)
	}
	if _, ok := Int("advanced"); ok {
		t.Fatal("non-numeric string must not coerce")
	}
	if _, ok := Int(nil); ok {
		t.Fatal("nil must not coerce")
	}
	if got := Str("  padded  "); got != "padded" {
		t.Fatalf("Str trim failed: %q", got)
	}
	if Map("nope") != nil {
		t.Fatal("Map on non-map must be nil")
	}
}
