package runtest

import "testing"

func TestRunCollectsOutputAndFault(t *testing.T) {
	res := Run(t, Options{Mode: ModePlain, Source: "print \"ok\"\nx = 1\nx(2)"})
	if res.Stdout != "ok\n" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
	if res.ErrCode != "RT0002" || res.ErrAt != "3:1" {
		t.Fatalf("unexpected fault %s at %s", res.ErrCode, res.ErrAt)
	}
}

func TestRunReportsCompileFaultsWithoutOutput(t *testing.T) {
	res := Run(t, Options{Mode: ModeOptimized, Source: "print \"never\"\nprint("})
	if res.Stdout != "" || res.ErrCode != "CP0003" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := normalizeNewlines("a\r\nb\r\n"); got != "a\nb\n" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFormatError(t *testing.T) {
	if got := FormatError("RT0002", "boom"); got != "RT0002: boom" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatError("", "boom"); got != "boom" {
		t.Fatalf("unexpected %q", got)
	}
}
