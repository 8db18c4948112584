// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard for a live CRSF link",
	Long: `Show a live terminal dashboard for the link.

Displays all 16 RC channels as bars, the current link statistics (RSSI,
link quality, SNR, RF profile), frame counters, and a failsafe banner when
valid channel data stops arriving.

Supports both serial and WebSocket connections.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

type tickMsg time.Time

// tuiModel polls the link on every tick; all link state shown is a copy
// taken at tick time.
type tuiModel struct {
	link     *crsf.Link
	connInfo string

	channels  crsf.ChannelData
	linkStats crsf.LinkStatistics
	failsafe  bool
	stats     crsf.StatsSnapshot

	bars          [crsf.ChannelCount]progress.Model
	eventLog      []eventLogEntry
	maxLogEntries int
	lastErrors    uint64
	width         int
	height        int
	quitting      bool
}

func initialTUIModel(link *crsf.Link, connInfo string) tuiModel {
	m := tuiModel{
		link:          link,
		connInfo:      connInfo,
		failsafe:      true,
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
	for i := range m.bars {
		m.bars[i] = progress.New(
			progress.WithGradient("#5A56E0", "#EE6FF8"),
			progress.WithoutPercentage(),
		)
		m.bars[i].Width = 30
	}
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(
		tuiTickCmd(),
		tea.EnterAltScreen,
	)
}

func tuiTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := (m.width-20)/2 - 12
		if barWidth < 10 {
			barWidth = 10
		}
		for i := range m.bars {
			m.bars[i].Width = barWidth
		}

	case tickMsg:
		wasFailsafe := m.failsafe

		m.channels = m.link.Channels()
		m.linkStats = m.link.LinkStats()
		m.failsafe = m.link.Failsafe()
		m.stats = m.link.Stats()

		if m.failsafe && !wasFailsafe {
			m.addLogEntry("FAILSAFE: channel data stopped", true)
		} else if !m.failsafe && wasFailsafe {
			m.addLogEntry("Link active", false)
		}
		if errs := m.stats.Errors(); errs > m.lastErrors {
			m.addLogEntry(fmt.Sprintf("%d new frame errors", errs-m.lastErrors), true)
			m.lastErrors = errs
		}

		return m, tuiTickCmd()
	}

	return m, nil
}

func (m *tuiModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	failsafeBanner := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("1")).
		Padding(0, 2)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("CRSFLINK - LINK DASHBOARD"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Press 'q' to quit", m.connInfo)))
	s.WriteString("\n\n")

	// Failsafe status line
	if m.failsafe {
		s.WriteString(failsafeBanner.Render("!! FAILSAFE !!"))
		s.WriteString(headerStyle.Render("  no valid channel data"))
	} else {
		s.WriteString(valueStyle.Render("✓ Link active"))
	}
	s.WriteString("\n\n")

	// Channel bars, two columns of eight
	channelContent := strings.Builder{}
	half := crsf.ChannelCount / 2
	for row := 0; row < half; row++ {
		left := row
		right := row + half
		channelContent.WriteString(fmt.Sprintf("%s %s %4d    %s %s %4d\n",
			labelStyle.Render(fmt.Sprintf("CH%-2d", left+1)),
			m.bars[left].ViewAs(float64(m.channels[left])/float64(crsf.ChannelMax)),
			m.channels[left],
			labelStyle.Render(fmt.Sprintf("CH%-2d", right+1)),
			m.bars[right].ViewAs(float64(m.channels[right])/float64(crsf.ChannelMax)),
			m.channels[right],
		))
	}
	s.WriteString(boxStyle.Render(strings.TrimRight(channelContent.String(), "\n")))
	s.WriteString("\n\n")

	// Link statistics
	lqStyle := valueStyle
	if m.linkStats.UplinkQuality < 30 {
		lqStyle = errorStyle
	} else if m.linkStats.UplinkQuality < 70 {
		lqStyle = warningStyle
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		labelStyle.Render("Uplink RSSI:"), valueStyle.Render(fmt.Sprintf("-%d/-%ddBm", m.linkStats.UplinkRSSIAnt1, m.linkStats.UplinkRSSIAnt2)),
		labelStyle.Render("LQ:"), lqStyle.Render(fmt.Sprintf("%d%%", m.linkStats.UplinkQuality)),
		labelStyle.Render("SNR:"), valueStyle.Render(fmt.Sprintf("%ddB", m.linkStats.UplinkSNR)),
		labelStyle.Render("Ant:"), valueStyle.Render(fmt.Sprintf("%d", m.linkStats.ActiveAntenna+1)),
	))
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		labelStyle.Render("Downlink RSSI:"), valueStyle.Render(fmt.Sprintf("-%ddBm", m.linkStats.DownlinkRSSI)),
		labelStyle.Render("LQ:"), valueStyle.Render(fmt.Sprintf("%d%%", m.linkStats.DownlinkQuality)),
		labelStyle.Render("SNR:"), valueStyle.Render(fmt.Sprintf("%ddB", m.linkStats.DownlinkSNR)),
		labelStyle.Render("Profile:"), valueStyle.Render(fmt.Sprintf("%d", m.linkStats.RFProfile)),
	))
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("Frames:"), valueStyle.Render(fmt.Sprintf("%d ch / %d link / %d other",
			m.stats.ChannelFrames, m.stats.LinkStatsFrames, m.stats.UnhandledFrames)),
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f/s", m.stats.FrameRate)),
		labelStyle.Render("Errors:"), func() string {
			if m.stats.Errors() > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", m.stats.Errors()))
			}
			return valueStyle.Render("0")
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - half - 14
	if logHeight < 3 {
		logHeight = 3
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					valueStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(strings.TrimRight(logContent.String(), "\n")))

	return s.String()
}

func runTUI(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}

	link := crsf.NewLink(conn, crsf.LinkConfig{
		FailsafeTimeout:    cfg.FailsafeTimeout(),
		SkipChecksumVerify: cfg.SkipChecksumVerify,
	})
	link.Start()
	defer link.Close()

	m := initialTUIModel(link, connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Quit the TUI when the receive loop dies
	go func() {
		<-link.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}
