package eventsource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/pkg/winapi"
)

func collectKinds(s *Source) (*[]Kind, func()) {
	var got []Kind
	unsubscribe := s.Subscribe(func(e Event) { got = append(got, e.Kind) })
	return &got, unsubscribe
}

func TestOnSysTranslatesDisplayChange(t *testing.T) {
	s := New(nil)
	got, unsub := collectKinds(s)
	defer unsub()

	s.onSys(winapi.SysEvent{Msg: winapi.WMDisplayChange})

	require.Equal(t, []Kind{DisplayChanged}, *got)
}

func TestOnSysTranslatesSuspendAndResume(t *testing.T) {
	s := New(nil)
	got, unsub := collectKinds(s)
	defer unsub()

	s.onSys(winapi.SysEvent{Msg: winapi.WMPowerBroadcast, WParam: winapi.PBTAPMSuspend})
	s.onSys(winapi.SysEvent{Msg: winapi.WMPowerBroadcast, WParam: winapi.PBTAPMResumeSuspend})
	s.onSys(winapi.SysEvent{Msg: winapi.WMPowerBroadcast, WParam: winapi.PBTAPMResumeAutomatic})

	require.Equal(t, []Kind{SessionSuspend, SessionResume, SessionResume}, *got)
}

func TestOnSysTranslatesSettingChange(t *testing.T) {
	s := New(nil)
	got, unsub := collectKinds(s)
	defer unsub()

	s.onSys(winapi.SysEvent{Msg: winapi.WMSettingChange, Setting: "ImmersiveColorSet"})
	s.onSys(winapi.SysEvent{Msg: winapi.WMSettingChange, Setting: "WindowMetrics"})
	s.onSys(winapi.SysEvent{Msg: winapi.WMSettingChange, Setting: "SomethingUnrelated"})

	require.Equal(t, []Kind{ColorSchemeChanged, TextScaleChanged}, *got)
}

func TestSkipListConsumesOnlyOnce(t *testing.T) {
	skip := newSkipList()
	skip.request(SessionSuspend, 42)

	require.True(t, skip.consume(SessionSuspend, 42))
	require.False(t, skip.consume(SessionSuspend, 42), "a skip request is single-shot")
}
