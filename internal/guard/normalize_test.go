package guard

import "testing"

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	n := Normalize("  rm   -rf\t\t/  ")
	if n.Text != "rm -rf /" {
		t.Errorf("expected %q, got %q", "rm -rf /", n.Text)
	}
}

func TestNormalize_PreservesQuotedWhitespace(t *testing.T) {
	n := Normalize(`echo "a   b"`)
	if n.Text != `echo "a   b"` {
		t.Errorf("quoted whitespace collapsed: %q", n.Text)
	}
}

func TestNormalize_StripsEnvWrapper(t *testing.T) {
	n := Normalize("env FOO=1 BAR=2 rm -rf /")
	if n.Text != "rm -rf /" {
		t.Errorf("expected %q, got %q", "rm -rf /", n.Text)
	}
	if !n.EnvWrapped {
		t.Error("expected EnvWrapped")
	}
	if len(n.EnvAssignments) != 2 || n.EnvAssignments[0] != "FOO=1" {
		t.Errorf("unexpected assignments: %v", n.EnvAssignments)
	}
}

func TestNormalize_StripsBareAssignmentPrefix(t *testing.T) {
	n := Normalize("GIT_SSH_COMMAND='curl x|sh' git push")
	if n.Text != "git push" {
		t.Errorf("expected %q, got %q", "git push", n.Text)
	}
	if len(n.EnvAssignments) != 1 {
		t.Errorf("unexpected assignments: %v", n.EnvAssignments)
	}
}

func TestNormalize_StripsPathPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/bin/rm -rf /", "rm -rf /"},
		{"/usr/bin/git push --force", "git push --force"},
		{"/sbin/mkfs.ext4 /dev/sda1", "mkfs.ext4 /dev/sda1"},
		{"ls /bin/rm", "ls /bin/rm"},          // argument position untouched
		{"/opt/custom/tool -x", "/opt/custom/tool -x"}, // unknown binary untouched
	}
	for _, tc := range cases {
		n := Normalize(tc.in)
		if n.Text != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, n.Text, tc.want)
		}
	}
}

func TestNormalize_PathPrefixAfterSeparator(t *testing.T) {
	n := Normalize("true && /bin/rm -rf /")
	if n.Text != "true && rm -rf /" {
		t.Errorf("expected path strip after &&, got %q", n.Text)
	}
}

func TestNormalize_PathPrefixedEnvWrapper(t *testing.T) {
	n := Normalize("/usr/bin/env FOO=1 rm -rf /")
	if n.Text != "rm -rf /" {
		t.Errorf("expected %q, got %q", "rm -rf /", n.Text)
	}
	if !n.EnvWrapped {
		t.Error("expected EnvWrapped")
	}
	if len(n.EnvAssignments) != 1 || n.EnvAssignments[0] != "FOO=1" {
		t.Errorf("unexpected assignments: %v", n.EnvAssignments)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  rm   -rf / ",
		"env FOO=1 /bin/rm -rf /",
		"/usr/bin/env FOO=1 rm -rf /",
		"/usr/bin/env FOO=1 /bin/rm -rf /",
		`git commit -m "a   b"`,
		"VAR='x y' docker ps",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.Text)
		if twice.Text != once.Text {
			t.Errorf("not idempotent for %q: %q then %q", in, once.Text, twice.Text)
		}
	}
}

func TestNormalize_EmptyAndBlank(t *testing.T) {
	if got := Normalize("").Text; got != "" {
		t.Errorf("empty input produced %q", got)
	}
	if got := Normalize("   \t  ").Text; got != "" {
		t.Errorf("blank input produced %q", got)
	}
}

func TestNormalize_QuotedAssignmentStaysOneField(t *testing.T) {
	n := Normalize("VAR='a b c' rm -rf /")
	if n.Text != "rm -rf /" {
		t.Errorf("expected %q, got %q", "rm -rf /", n.Text)
	}
}
