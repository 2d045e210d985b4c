package eligibility

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/internal/settings"
)

func TestEvalCondition(t *testing.T) {
	cases := []struct {
		name    string
		cond    settings.MatchCondition
		subject string
		want    bool
	}{
		{"equals match", settings.MatchCondition{Field: settings.FieldExe, Op: settings.OpEquals, Value: "explorer.exe"}, "explorer.exe", true},
		{"equals mismatch", settings.MatchCondition{Field: settings.FieldExe, Op: settings.OpEquals, Value: "explorer.exe"}, "notepad.exe", false},
		{"starts_with", settings.MatchCondition{Field: settings.FieldTitle, Op: settings.OpStartsWith, Value: "Untitled"}, "Untitled - Notepad", true},
		{"contains negated", settings.MatchCondition{Field: settings.FieldClass, Op: settings.OpContains, Value: "TabProxy", Negate: true}, "Windows.Internal.Shell.TabProxyWindow", false},
		{"regex", settings.MatchCondition{Field: settings.FieldExe, Op: settings.OpRegex, Value: `^chrome(_proxy)?\.exe$`}, "chrome_proxy.exe", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var title, class, exe, path string
			switch tc.cond.Field {
			case settings.FieldTitle:
				title = tc.subject
			case settings.FieldClass:
				class = tc.subject
			case settings.FieldPath:
				path = tc.subject
			default:
				exe = tc.subject
			}
			got := evalCondition(tc.cond, title, class, exe, path)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEvalConditionDistinguishesPathFromExe(t *testing.T) {
	cond := settings.MatchCondition{Field: settings.FieldPath, Op: settings.OpStartsWith, Value: `C:\Program Files\Widget\`}
	require.True(t, evalCondition(cond, "", "", "widget.exe", `C:\Program Files\Widget\widget.exe`))
	// The bare exe name alone must never satisfy a full-path matcher.
	require.False(t, evalCondition(cond, "", "", "widget.exe", ""))
}

func TestEvalGroupANDOR(t *testing.T) {
	and := settings.AppMatcher{
		MatchAny: false,
		Conditions: []settings.MatchCondition{
			{Field: settings.FieldExe, Op: settings.OpEquals, Value: "msedge.exe"},
			{Field: settings.FieldTitle, Op: settings.OpContains, Value: "PickerHost"},
		},
		Action: settings.ActionUnmanage,
	}
	require.True(t, evalGroup(and, "PickerHost", "", "msedge.exe", ""))
	require.False(t, evalGroup(and, "Edge - New Tab", "", "msedge.exe", ""))

	or := and
	or.MatchAny = true
	require.True(t, evalGroup(or, "Edge - New Tab", "", "msedge.exe", ""))
}

func TestMatchAppFirstMatchWins(t *testing.T) {
	snap := &settings.Snapshot{
		AppMatchers: []settings.AppMatcher{
			{Conditions: []settings.MatchCondition{{Field: settings.FieldExe, Op: settings.OpEquals, Value: "widget.exe"}}, Action: settings.ActionPin},
			{Conditions: []settings.MatchCondition{{Field: settings.FieldExe, Op: settings.OpEquals, Value: "widget.exe"}}, Action: settings.ActionForce},
		},
	}
	require.Equal(t, settings.ActionPin, matchApp(snap, "", "", "widget.exe", ""))
}

func TestClassAtLeastInteractable(t *testing.T) {
	require.False(t, Ignored.AtLeastInteractable())
	require.True(t, Interactable.AtLeastInteractable())
	require.True(t, Managed.AtLeastInteractable())
}
