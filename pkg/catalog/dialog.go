package catalog

import (
	"strings"

	"github.com/fulmenhq/patchwork/pkg/rewrite"
)

// The dialog library's call shapes are a fixed contract of the edited front
// end; the builders below only reproduce them.

func swalInfo(msg string) string {
	return "Swal.fire({ icon: 'info', text: " + msg + " })"
}

func swalNotice(msg string) string {
	return "Swal.fire({ icon: 'info', title: '通知', text: " + msg + " });"
}

func swalCopied(op, msg string) string {
	return op + ".then(() => Swal.fire({ icon: 'success', title: '完了', text: " + msg + ", timer: 1500, showConfirmButton: false }))"
}

// swalConfirmGuard keeps the guard shape "if (!x)" so whatever followed the
// original call stays valid.
func swalConfirmGuard(msg string) string {
	return `const { isConfirmed } = await Swal.fire({
        icon: 'warning',
        title: '確認',
        text: ` + msg + `,
        showCancelButton: true,
        confirmButtonText: 'はい',
        cancelButtonText: 'いいえ'
    });
    if (!isConfirmed)`
}

// swalPrompt takes the first argument as the title and the rest as the
// default value.
func swalPrompt(name, args string) string {
	title, def := args, "''"
	if parts := rewrite.SplitArgs(args); len(parts) > 1 {
		title = parts[0]
		if rest := strings.Join(parts[1:], ", "); rest != "" {
			def = rest
		}
	} else {
		title = strings.TrimSpace(title)
	}
	return `const { value: ` + name + ` } = await Swal.fire({
        title: ` + title + `,
        input: 'text',
        inputValue: ` + def + `,
        showCancelButton: true
    });`
}

const moduleCompleteThen = "Swal.fire({ icon: 'success', title: 'モジュール完了！', text: 'お疲れ様でした。' }).then(() => { window.location.href = '/student'; });"
