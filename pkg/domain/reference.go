package domain

import "fmt"

// ReferenceRole は参照画像の役割（屋外シーン用か室内シーン用か）を表します。
type ReferenceRole string

const (
	RoleOutdoor ReferenceRole = "outdoor"
	RoleHome    ReferenceRole = "home"
)

// ReferenceImage はキャラクターの外見を固定するために生成 API へ渡す参照画像です。
type ReferenceImage struct {
	Role ReferenceRole
	Path string
}

func (r ReferenceImage) String() string {
	return fmt.Sprintf("%s (%s)", r.Path, r.Role)
}
