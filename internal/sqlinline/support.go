package sqlinline

const QListSupportNumbers = `--sql ea35c4e6-1eb4-48b9-8db9-82d6083522fa
select id, name, number, active, created_at
from support_numbers
order by created_at asc;
`

const QInsertSupportNumber = `--sql 5621fe19-720f-4c81-a48b-b7879d474197
insert into support_numbers(id, name, number, active, created_at)
values (gen_random_uuid(), $1::text, $2::text, true, now())
returning id;
`

const QDeleteSupportNumber = `--sql c97bf4fc-11d7-4f7e-bbc5-bd381fc28b30
delete from support_numbers
where id = $1::uuid;
`
