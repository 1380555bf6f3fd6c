package policy

import "testing"

func TestAnd(t *testing.T) {
	tests := []struct {
		x, y ResultKind
		want ResultKind
	}{
		{Pass, Pass, Pass},
		{Pass, Fail, Fail},
		{Fail, Error, Fail},
		{Error, Unknown, Unknown},
		{Unknown, Pass, Error},
		{NotApplicable, NotApplicable, NotApplicable},
		{NotApplicable, NotChecked, NotApplicable},
		{NotChecked, NotSelected, NotChecked},
		{NotSelected, Informational, NotSelected},
		{Informational, Informational, Informational},
		// RESULT_TABLE_AND is not commutative around Error/Unknown: the row
		// (first operand) picks the table, and the Error and Unknown rows
		// disagree with their own columns.
		{Error, Pass, Unknown},
		{Pass, Error, Error},
		{Unknown, Error, Error},
	}
	for _, tt := range tests {
		if got := And(tt.x, tt.y); got != tt.want {
			t.Errorf("And(%s, %s) = %s, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestOr(t *testing.T) {
	tests := []struct {
		x, y ResultKind
		want ResultKind
	}{
		{Pass, Fail, Pass},
		{Fail, Fail, Fail},
		{Fail, Error, Error},
		{Error, Unknown, Unknown},
		{Unknown, Unknown, Unknown},
		{NotApplicable, NotApplicable, NotApplicable},
		{NotChecked, NotSelected, NotChecked},
		// RESULT_TABLE_OR's Error/Unknown rows are likewise non-commutative.
		{Error, Error, Unknown},
		{Unknown, Fail, Error},
		{Fail, Unknown, Unknown},
	}
	for _, tt := range tests {
		if got := Or(tt.x, tt.y); got != tt.want {
			t.Errorf("Or(%s, %s) = %s, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestNegate(t *testing.T) {
	if Negate(Pass) != Fail {
		t.Errorf("Negate(Pass) should be Fail")
	}
	if Negate(Fail) != Pass {
		t.Errorf("Negate(Fail) should be Pass")
	}
	for _, k := range []ResultKind{Error, Unknown, NotApplicable, NotChecked, NotSelected, Informational} {
		if Negate(k) != k {
			t.Errorf("Negate(%s) should pass through unchanged, got %s", k, Negate(k))
		}
	}
}

func TestReduce(t *testing.T) {
	got := Reduce(And, []ResultKind{Pass, Pass, Fail, Pass})
	if got != Fail {
		t.Errorf("Reduce(And, [Pass,Pass,Fail,Pass]) = %s, want Fail", got)
	}
	got = Reduce(Or, []ResultKind{Fail, Fail, Pass})
	if got != Pass {
		t.Errorf("Reduce(Or, [Fail,Fail,Pass]) = %s, want Pass", got)
	}
}

func TestIsSkipKind(t *testing.T) {
	for _, k := range []ResultKind{NotSelected, NotApplicable, Informational, NotChecked} {
		if !k.IsSkipKind() {
			t.Errorf("%s should be a skip kind", k)
		}
	}
	for _, k := range []ResultKind{Pass, Fail, Error, Unknown} {
		if k.IsSkipKind() {
			t.Errorf("%s should not be a skip kind", k)
		}
	}
}
