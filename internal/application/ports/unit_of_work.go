package ports

import "context"

// UnitOfWork задаёт границы транзакции для use cases.
//
//	err := uow.Execute(ctx, func(txCtx context.Context) error {
//	    if err := projects.Create(txCtx, project); err != nil {
//	        return err // ROLLBACK
//	    }
//	    return events.Publish(txCtx, evt) // COMMIT
//	})
type UnitOfWork interface {
	// Execute выполняет fn в одной транзакции. Репозитории внутри fn
	// обязаны получать txCtx, иначе запрос уйдёт мимо транзакции.
	// Реализация может повторить fn, если БД отменила транзакцию.
	Execute(ctx context.Context, fn func(txCtx context.Context) error) error
}
