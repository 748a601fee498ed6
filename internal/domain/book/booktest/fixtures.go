// Package booktest 三种仓储实现共用的语义测试集
//
// 每个实现的测试只需提供一个返回空仓储的工厂(主键前缀B、起始值1),
// 然后调用Run。同一组用例保证SQL文本、GORM、内存三条路径行为一致。
package booktest

import (
	"strconv"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixtures 固定的12本图书,按顺序创建后主键为B1..B12
// 标题两两不同,便于断言排序结果
func Fixtures() []*book.Book {
	return []*book.Book{
		{Author: "Ralls, Kim", Title: "Midnight Rain", Genre: "Fantasy", Price: 5.95, PublishDate: date(2000, 12, 16),
			Description: "A former architect battles corporate zombies."},
		{Author: "Corets, Eva", Title: "Maeve Ascendant", Genre: "Fantasy", Price: 5.95, PublishDate: date(2000, 11, 17),
			Description: "After the collapse of a nanotechnology society, the young survivors lay the foundation for a new society."},
		{Author: "Corets, Eva", Title: "Oberon's Legacy", Genre: "Fantasy", Price: 5.95, PublishDate: date(2001, 3, 10),
			Description: "In post-apocalypse England, the mysterious agent known only as Oberon helps to create a new life."},
		{Author: "Corets, Eva", Title: "The Sundered Grail", Genre: "Fantasy", Price: 5.95, PublishDate: date(2001, 9, 10),
			Description: "The two daughters of Maeve battle for control of England."},
		{Author: "Randall, Cynthia", Title: "Lover Birds", Genre: "Romance", Price: 4.95, PublishDate: date(2000, 9, 2),
			Description: "When Carla meets Paul at an ornithology conference, tempers fly as feathers get ruffled."},
		{Author: "Thurman, Paula", Title: "Splish Splash", Genre: "Romance", Price: 4.95, PublishDate: date(2000, 11, 2),
			Description: "A deep sea diver finds true love twenty thousand leagues beneath the sea."},
		{Author: "Knorr, Stefan", Title: "Creepy Crawlies", Genre: "Horror", Price: 4.95, PublishDate: date(2000, 12, 6),
			Description: "An anthology of horror stories about roaches, centipedes, scorpions and other insects."},
		{Author: "Kress, Peter", Title: "Paradox Lost", Genre: "Science Fiction", Price: 6.95, PublishDate: date(2000, 11, 2),
			Description: "After an inadvertant trip through a Heisenberg Uncertainty Device, James Salway discovers the problems of being quantum."},
		{Author: "O'Brien, Tim", Title: "Microsoft .NET: The Programming Bible", Genre: "Computer", Price: 36.95, PublishDate: date(2000, 12, 9),
			Description: "Microsoft's .NET initiative is explored in detail in this deep programmer's reference."},
		{Author: "O'Brien, Tim", Title: "MSXML3: A Comprehensive Guide", Genre: "Computer", Price: 36.95, PublishDate: date(2000, 12, 1),
			Description: "The Microsoft MSXML3 parser is covered in detail, with attention to XML DOM interfaces."},
		{Author: "Galos, Mike", Title: "Visual Studio 7: A Comprehensive Guide", Genre: "Computer", Price: 49.95, PublishDate: date(2001, 4, 16),
			Description: "Microsoft Visual Studio 7 is explored in depth, looking at how Visual Basic and Visual C++ integrate."},
		{Author: "Gambardella, Matthew", Title: "XML Developer's Guide", Genre: "Computer", Price: 44.95, PublishDate: date(2000, 10, 1),
			Description: "An in-depth look at creating applications with XML. 100% practical."},
	}
}

// IDs 把序号转成主键,IDs(1,2) → ["B1","B2"]
func IDs(ns ...int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = "B" + strconv.Itoa(n)
	}
	return out
}

// Range 闭区间序号
func Range(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
