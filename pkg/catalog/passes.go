package catalog

import (
	"strings"

	"github.com/fulmenhq/patchwork/pkg/audit"
	"github.com/fulmenhq/patchwork/pkg/excise"
	"github.com/fulmenhq/patchwork/pkg/insert"
	"github.com/fulmenhq/patchwork/pkg/rewrite"
	"github.com/fulmenhq/patchwork/pkg/scan"
)

// AxiosScript is the line add-axios places before </head>.
const AxiosScript = `        <script src="https://cdn.jsdelivr.net/npm/axios@1.6.0/dist/axios.min.js"></script>`

// Rule names referenced by ordering constraints and tests.
const (
	RuleClipboardAlert = "clipboard alert"
	RuleGenericAlert   = "generic alert"
	RuleConfirmGuard   = "confirm guard"
	RulePrompt         = "prompt input"
	RuleNullCheck      = "prompt null check"
	RuleVariableAlert  = "variable alert"
	RuleModuleComplete = "module complete"
)

func init() {
	register(addAxios())
	register(cleanDashboard())
	register(removePreview())
	register(fixAPIEndpoint())
	register(replaceAlerts())
	register(replaceAlertsV2())
	register(fixAlerts())
	register(findAlerts())
	register(checkAlerts())
}

func addAxios() Pass {
	return Pass{
		Name:        "add-axios",
		Kind:        KindInsert,
		Description: "Add the axios script before </head> in the student login and register routes",
		Insert: &insert.Inserter{
			Name:    "axios",
			Regions: []scan.RegionRule{
				{Tag: "/student/login", Marker: "app.get('/student/login'"},
				{Tag: "/register", Marker: "app.get('/register'"},
			},
			ResetMarker: "app.get('/",
			Target:      "</head>",
			Marker:      "axios.min.js",
			Content:     []string{AxiosScript},
			Lookback:    insert.DefaultLookback,
		},
	}
}

func cleanDashboard() Pass {
	return Pass{
		Name:        "clean-dashboard",
		Kind:        KindExcise,
		Description: "Remove the student preview block from the teacher dashboard",
		Excise: &excise.Engine{
			Blocks: []excise.BlockRule{{
				Name:       "student preview",
				Starts:     []excise.Matcher{excise.Contains("<!-- 生徒画面プレビュー -->")},
				Terminator: excise.Line("</script>"),
			}},
		},
	}
}

func removePreview() Pass {
	return Pass{
		Name:        "remove-preview",
		Kind:        KindExcise,
		Description: "Remove the teacher preview API, route, dashboard card and navigation links",
		Excise: &excise.Engine{
			Blocks: []excise.BlockRule{
				{
					Name: "preview handlers",
					Starts: []excise.Matcher{
						excise.Contains("app.get('/api/teacher/preview-content'"),
						excise.Contains("app.get('/teacher/preview'"),
					},
					Terminator: excise.Line("});"),
				},
				{
					Name:       "preview card",
					Starts:     []excise.Matcher{excise.Contains(`<a href="/teacher/preview"`, "bg-gradient-to-br from-green-100")},
					Terminator: excise.Contains("</a>"),
				},
			},
			Lines: []excise.LineRule{
				{Name: "nav link", Match: excise.Contains(`<a href="/teacher/preview"`, "bg-green-500")},
				{Name: "student view link", Match: excise.Contains(`<a href="/teacher/preview"`, "生徒画面")},
				{Name: "preview link", Match: excise.Contains(`<a href="/teacher/preview"`, "プレビュー")},
			},
		},
	}
}

func fixAPIEndpoint() Pass {
	const (
		from = "/api/teacher/questions"
		to   = "/api/teacher/step-questions"
	)
	return Pass{
		Name:        "fix-api-endpoint",
		Kind:        KindRewrite,
		Description: "Point the step question fetch at /api/teacher/step-questions",
		Rewrite: rewrite.MustRuleSet([]rule{
			rewrite.LineLiteral{
				Label:  "step questions fetch",
				Anchor: "axios.get(`/api/teacher/questions?step_id=${stepId}`)",
				Old:    from,
				New:    to,
			},
			rewrite.LineLiteral{
				Label:  "escaped step questions fetch",
				Anchor: "axios.get(\\`/api/teacher/questions?step_id=\\${stepId}\\`)",
				Old:    from,
				New:    to,
			},
		}),
	}
}

type rule = rewrite.Rule

// freeCall matches the opening of a call to name that is neither a member
// call nor the tail of a longer identifier.
func freeCall(name string) string {
	return `(?<![.\w$])` + name + `\(`
}

// startsWithString reports whether a call's first argument opens with a
// quoted string; variables are handled by fix-alerts.
func startsWithString(args string) bool {
	args = strings.TrimSpace(args)
	return strings.HasPrefix(args, "'") || strings.HasPrefix(args, `"`)
}

func replaceAlerts() Pass {
	return Pass{
		Name:        "replace-alerts",
		Kind:        KindRewrite,
		Description: "Replace the class join alerts with dialog calls",
		Rewrite: rewrite.MustRuleSet([]rule{
			rewrite.NewLiteral("success message",
				"alert(`「${res.data.section.name}」に参加しました！`);",
				"await Swal.fire({ icon: 'success', title: '参加しました！', text: `「${res.data.section.name}」に参加しました！` });"),
			rewrite.NewLiteral("invalid code message",
				"alert('無効なコードです');",
				"Swal.fire({ icon: 'error', title: 'エラー', text: '無効なコードです' });"),
			rewrite.NewLiteral("already joined message",
				"alert(e.response.data.error || '既に参加済みのクラスです');",
				"Swal.fire({ icon: 'info', title: '参加済み', text: e.response.data.error || '既に参加済みのクラスです' });"),
			rewrite.NewLiteral("generic error message",
				"alert('エラーが発生しました');",
				"Swal.fire({ icon: 'error', title: 'エラー', text: 'エラーが発生しました' });"),
		}),
	}
}

func replaceAlertsV2() Pass {
	rules := []rule{
		rewrite.MustPattern(RuleClipboardAlert, rewrite.KindCompound,
			`(navigator\.clipboard\.writeText\([^)]+\));alert\((.*?)\)`,
			func(g []string) string { return swalCopied(g[1], g[2]) }),
		// Member calls such as window.alert and names such as showalert are left alone.
		rewrite.MustCall(RuleGenericAlert, rewrite.KindParameterized,
			freeCall("alert"),
			func(g []string) string { return swalInfo(g[len(g)-1]) },
			rewrite.WithArgs(startsWithString)),
		rewrite.MustCall(RuleConfirmGuard, rewrite.KindControl,
			`if\s*\(!confirm\(`,
			func(g []string) string { return swalConfirmGuard(g[len(g)-1]) },
			rewrite.WithTail(")")),
		rewrite.MustCall(RulePrompt, rewrite.KindControl,
			`const\s+(\w+)\s*=\s*prompt\(`,
			func(g []string) string { return swalPrompt(g[1], g[2]) },
			rewrite.WithTail(";")),
		// A cancelled dialog yields undefined where prompt returned null.
		rewrite.MustPattern(RuleNullCheck, rewrite.KindParameterized,
			`if\s*\(([\w.$]+)\s*===\s*null\)`,
			func(g []string) string { return "if (" + g[1] + " === undefined || " + g[1] + " === null)" }),
	}
	return Pass{
		Name:        "replace-alerts-v2",
		Kind:        KindRewrite,
		Description: "Rewrite alert, confirm and prompt calls into dialog calls",
		Rewrite: rewrite.MustRuleSet(rules,
			rewrite.Order{First: RuleClipboardAlert, Then: RuleGenericAlert},
			rewrite.Order{First: RulePrompt, Then: RuleNullCheck},
		),
	}
}

func fixAlerts() Pass {
	rules := []rule{
		rewrite.MustBacktrackPattern(RuleVariableAlert, rewrite.KindParameterized,
			`(?<![.\w$])alert\(([a-zA-Z0-9_.]+)\);`,
			func(g []string) string { return swalNotice(g[1]) }),
		rewrite.NewLiteral("student code issued",
			`alert('生徒コードを発行しました！\\n\\n生徒コード: ' + res.data.username + '\\n初期パスワード: ' + res.data.password + '\\n\\nこの情報を控えて生徒に伝えてください。');`,
			`Swal.fire({
        icon: 'success',
        title: '生徒コード発行完了',
        html: '<div class="text-left">生徒コード: <b>' + res.data.username + '</b><br>初期パスワード: <b>' + res.data.password + '</b><br><br><span class="text-sm text-gray-500">この情報を控えて生徒に伝えてください。</span></div>'
    });`),
		rewrite.MustPattern(RuleModuleComplete, rewrite.KindCompound,
			`Swal\.fire\(\{ icon: 'info', text: 'モジュール完了！' \}\);\s*window\.location\.href\s*=\s*'/student';`,
			func([]string) string { return moduleCompleteThen }),
		rewrite.NewLiteral("reply required",
			"return alert('返信内容を入力してください');",
			"{ Swal.fire({ icon: 'warning', text: '返信内容を入力してください' }); return; }"),
		rewrite.NewLiteral("unknown phase",
			"alert('フェーズが特定できません');",
			"Swal.fire({ icon: 'error', text: 'フェーズが特定できません' });"),
		rewrite.NewLiteral("unknown module",
			"alert('モジュールが特定できません');",
			"Swal.fire({ icon: 'error', text: 'モジュールが特定できません' });"),
		rewrite.NewLiteral("delete not implemented",
			"alert('削除機能は今後実装予定です（ID: ' + id + '）');",
			"Swal.fire({ icon: 'info', text: '削除機能は今後実装予定です（ID: ' + id + '）' });"),
		rewrite.MustPattern("module complete alert", rewrite.KindCompound,
			`alert\('モジュール完了！'\);\s*window\.location\.href\s*=\s*'/student';`,
			func([]string) string { return moduleCompleteThen }),
	}
	return Pass{
		Name:        "fix-alerts",
		Kind:        KindRewrite,
		Description: "Rewrite the remaining variable and fixed-message alerts",
		Rewrite:     rewrite.MustRuleSet(rules),
	}
}

// Probe names.
const (
	ProbeAlert         = "alert"
	ProbeConfirm       = "confirm"
	ProbePrompt        = "prompt"
	ProbeSwalNavigates = "swal followed by location"
)

func findAlerts() Pass {
	return Pass{
		Name:        "find-alerts",
		Kind:        KindAudit,
		Description: "Count alert, confirm and prompt calls",
		Probes: []audit.Probe{
			audit.MustProbe(ProbeAlert, `alert\((.*?)\)`, 0),
			audit.MustProbe(ProbeConfirm, `confirm\((.*?)\)`, 0),
			audit.MustProbe(ProbePrompt, `prompt\((.*?)\)`, 0),
		},
	}
}

func checkAlerts() Pass {
	return Pass{
		Name:        "check-alerts",
		Kind:        KindAudit,
		Description: "Report remaining alerts and dialogs followed by a navigation",
		Probes: []audit.Probe{
			audit.MustProbe(ProbeAlert, `alert\(.*?\)`, 0),
			audit.MustProbe(ProbeSwalNavigates, `Swal\.fire\([^;]*?\);\s*(?:window\.)?location`, 0),
		},
	}
}
