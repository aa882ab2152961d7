package domain

import "fmt"

// FindPage は指定されたページ番号の Page へのポインタを返します。見つからなければ nil なのだ。
func (d *StoryDocument) FindPage(pageNumber int) *Page {
	if d == nil {
		return nil
	}
	for i := range d.Pages {
		if d.Pages[i].PageNumber == pageNumber {
			return &d.Pages[i]
		}
	}
	return nil
}

// Validate はページ番号が正の整数で、かつ重複なく昇順に並んでいることを確認します。
func (d *StoryDocument) Validate() error {
	prev := 0
	for i, p := range d.Pages {
		if p.PageNumber <= 0 {
			return fmt.Errorf("pages[%d]: page_number must be positive, got %d", i, p.PageNumber)
		}
		if p.PageNumber <= prev {
			return fmt.Errorf("pages[%d]: page_number %d is not strictly increasing (previous %d)", i, p.PageNumber, prev)
		}
		prev = p.PageNumber
	}
	return nil
}
